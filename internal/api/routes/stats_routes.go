package routes

import (
	"github.com/ckrstars/habititt/internal/api/handlers"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type StatsRoutes struct {
	handler *handlers.StatsHandler
}

func NewStatsRoutes(handler *handlers.StatsHandler) *StatsRoutes {
	return &StatsRoutes{handler: handler}
}

// RegisterRoutes registers the statistics, backup and seeding routes
func (s *StatsRoutes) RegisterRoutes(router *gin.Engine) {
	stats := router.Group("/api/stats")
	stats.Use(gzip.Gzip(gzip.DefaultCompression))

	stats.GET("/dashboard", s.handler.Dashboard)
	stats.GET("/consistency", s.handler.Consistency)
	stats.GET("/correlations", s.handler.Correlations)
	stats.GET("/habits/:id", s.handler.HabitStats)
	stats.GET("/habits/:id/calendar", s.handler.HabitCalendar)
	stats.GET("/habits/:id/trend", s.handler.HabitTrend)

	data := router.Group("/api/data")
	data.POST("/export", s.handler.Export)
	data.GET("/export", s.handler.Export)
	data.POST("/import", s.handler.Import)
	data.POST("/seed", s.handler.Seed)
}
