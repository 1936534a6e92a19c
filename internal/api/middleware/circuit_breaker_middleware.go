package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/ckrstars/habititt/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreakerConfig holds configuration for the circuit breaker
type CircuitBreakerConfig struct {
	FailureThreshold    int           // failures before opening the circuit
	SuccessThreshold    int           // successes before closing it again
	Timeout             time.Duration // open duration before probing
	HalfOpenMaxRequests int           // concurrent probes allowed while half-open
}

// CircuitBreaker sheds load when the backing store keeps failing, so a
// struggling database is not hammered by retry storms.
type CircuitBreaker struct {
	config    CircuitBreakerConfig
	state     CircuitState
	failures  int
	successes int
	inFlight  int
	lastError time.Time
	mutex     sync.Mutex
	log       *logger.Logger
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		log:    logger.NewLogger(),
	}
}

// CircuitBreakerMiddleware gates requests through the breaker
func (cb *CircuitBreaker) CircuitBreakerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cb.allow() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "service temporarily unavailable",
			})
			c.Abort()
			return
		}

		c.Next()

		cb.record(c.Writer.Status() < 500, c.Request.URL.Path)
	}
}

func (cb *CircuitBreaker) allow() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.lastError) <= cb.config.Timeout {
			return false
		}
		cb.state = StateHalfOpen
		cb.failures = 0
		cb.successes = 0
		cb.inFlight = 0
		fallthrough
	case StateHalfOpen:
		if cb.inFlight >= cb.config.HalfOpenMaxRequests {
			return false
		}
		cb.inFlight++
	}
	return true
}

func (cb *CircuitBreaker) record(success bool, path string) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state == StateHalfOpen && cb.inFlight > 0 {
		cb.inFlight--
	}

	if !success {
		cb.failures++
		if cb.state != StateOpen && cb.failures >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.lastError = time.Now()
			cb.log.Error("Circuit breaker opened",
				zap.String("path", path),
				zap.Int("failures", cb.failures))
		}
		return
	}

	cb.successes++
	if cb.state == StateHalfOpen && cb.successes >= cb.config.SuccessThreshold {
		cb.state = StateClosed
		cb.failures = 0
		cb.successes = 0
		cb.log.Info("Circuit breaker closed", zap.String("path", path))
	}
}
