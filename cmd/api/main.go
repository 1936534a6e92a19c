package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ckrstars/habititt/internal/api/handlers"
	"github.com/ckrstars/habititt/internal/api/middleware"
	"github.com/ckrstars/habititt/internal/api/routes"
	"github.com/ckrstars/habititt/internal/domain/events"
	"github.com/ckrstars/habititt/internal/domain/habits"
	"github.com/ckrstars/habititt/internal/infrastructure/cache"
	"github.com/ckrstars/habititt/internal/infrastructure/persistence/postgres/connection"
	"github.com/ckrstars/habititt/internal/infrastructure/persistence/postgres/migrations"
	"github.com/ckrstars/habititt/internal/infrastructure/scheduler"
	"github.com/ckrstars/habititt/pkg/config"
	"github.com/ckrstars/habititt/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLoggerWithLevel(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(middleware.NewMetricsMiddleware().CollectMetrics())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: len(cfg.CORS.AllowedOrigins) == 0,
		AllowOrigins:    cfg.CORS.AllowedOrigins,
		AllowMethods:    cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Encoding",
			"Content-Type",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"Content-Type",
			"Content-Disposition",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Select the habit repository per storage.driver
	var habitsRepo habits.Repository
	switch cfg.Storage.Driver {
	case "memory":
		habitsRepo = habits.NewMemoryRepository()
		log.Info("Using in-memory habit storage")
	default:
		db, err := connection.NewDatabase(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := migrations.AutoMigrate(db, log.Logger); err != nil {
			log.Fatal("Failed to run database migrations", zap.Error(err))
		}
		habitsRepo = habits.NewRepository(db)
	}

	// Redis backs the stats cache and dashboard event fan-out; the engine
	// runs fine without it
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cache.NewConfigFromEnv(cfg))
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
	} else {
		log.Info("Redis disabled, running without stats cache")
	}

	// One clock for the engine and the API edge so "today" never diverges
	clock := habits.SystemClock()
	habitsService := habits.NewService(habitsRepo, redisClient, clock, log.Logger)

	// Midnight rollover: reset daily progress and resync streaks
	var rolloverScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		rolloverScheduler = scheduler.NewScheduler(habitsService, cfg.Scheduler.RolloverCron, log)
		if err := rolloverScheduler.Start(); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		log.Info("Habit scheduler started successfully")
	}

	habitsHandler := handlers.NewHabitsHandler(habitsService, clock)
	statsHandler := handlers.NewStatsHandler(habitsService, clock)

	routes.SetupHealthRoutes(router, redisClient)
	routes.NewHabitsRoutes(habitsHandler).RegisterRoutes(router)
	log.Info("Registered habits routes at /api/habits")
	routes.NewStatsRoutes(statsHandler).RegisterRoutes(router)
	log.Info("Registered stats routes at /api/stats and /api/data")

	// Relay dashboard events so a websocket or SSE layer can hook in later
	if redisClient != nil {
		go func() {
			ctx := context.Background()
			err := redisClient.SubscribeToDashboardEvents(ctx, func(event *events.DashboardEvent) error {
				log.Info("Dashboard event received",
					zap.String("event_type", event.EventType),
					zap.String("entity_id", event.EntityID.String()))
				return nil
			})
			if err != nil && err != context.Canceled {
				log.Error("Dashboard event subscription ended", zap.Error(err))
			}
		}()
	}

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if rolloverScheduler != nil {
		rolloverScheduler.Stop()
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
