package routes

import (
	"net/http"
	"time"

	"github.com/ckrstars/habititt/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// SetupHealthRoutes registers health check endpoints. redis may be nil
// when no cache is configured; readiness then only reflects the process.
func SetupHealthRoutes(router *gin.Engine, redis *cache.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		checks := make(map[string]string)
		status := "ready"
		code := http.StatusOK

		if redis != nil {
			if err := redis.HealthCheck(c.Request.Context()); err != nil {
				checks["redis"] = err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else {
				checks["redis"] = "ok"
			}
		}

		c.JSON(code, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	})
}
