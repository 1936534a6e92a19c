package routes

import (
	"time"

	"github.com/ckrstars/habititt/internal/api/handlers"
	"github.com/ckrstars/habititt/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type HabitsRoutes struct {
	handler *handlers.HabitsHandler
}

func NewHabitsRoutes(handler *handlers.HabitsHandler) *HabitsRoutes {
	return &HabitsRoutes{handler: handler}
}

// RegisterRoutes registers all habit-related routes
func (h *HabitsRoutes) RegisterRoutes(router *gin.Engine) {
	circuitBreaker := middleware.NewCircuitBreaker(middleware.CircuitBreakerConfig{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 5,
	})

	habits := router.Group("/api/habits")
	habits.Use(circuitBreaker.CircuitBreakerMiddleware())

	// Full histories ride along with every habit, so compress list reads
	habits.GET("", gzip.Gzip(gzip.DefaultCompression), h.handler.ListHabits)
	habits.POST("", h.handler.CreateHabit)

	habits.GET("/:id", gzip.Gzip(gzip.DefaultCompression), h.handler.GetHabit)
	habits.PUT("/:id", h.handler.UpdateHabit)
	habits.DELETE("/:id", h.handler.DeleteHabit)

	// Progress engine operations
	habits.POST("/:id/increment", h.handler.IncrementHabit)
	habits.POST("/:id/decrement", h.handler.DecrementHabit)
	habits.POST("/:id/complete", h.handler.CompleteHabit)
	habits.POST("/:id/uncomplete", h.handler.UndoCompleteHabit)

	habits.PUT("/:id/reminder", h.handler.SetReminder)
}
