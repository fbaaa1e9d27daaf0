package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fashionflow/config"
	"fashionflow/database"
	"fashionflow/forecast"
	"fashionflow/gemini"
	"fashionflow/handlers"
	"fashionflow/logging"
	"fashionflow/middleware"
	"fashionflow/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("Unable to connect to database: %v", err)
	}
	defer database.Close(pool)

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logrus.Fatalf("Failed to prepare database schema: %v", err)
	}

	rdb, err := database.NewRedisClient(ctx, database.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logrus.Fatalf("Unable to connect to Redis: %v", err)
	}
	defer database.CloseRedis(rdb)

	// Initialize the Gemini client
	ai, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.TimeoutDuration(),
	})
	if err != nil {
		logrus.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer ai.Close()

	h := handlers.New(handlers.Dependencies{
		Analyzer:    ai,
		Designs:     database.NewDesignStore(rdb, cfg.Redis.DesignTTLDuration()),
		Predictions: database.NewPredictionRepository(pool),
		Forecaster: forecast.NewGenerator(
			forecast.WithBaseSales(cfg.Forecast.BaseSales),
			forecast.WithFloor(cfg.Forecast.Floor),
			forecast.WithNoiseBand(cfg.Forecast.NoiseBand),
		),
		HealthChecks: map[string]handlers.HealthCheck{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.AIPerMinute, cfg.RateLimit.AIBurst)
	defer limiter.Stop()

	app := fiber.New(fiber.Config{
		AppName:   "FashionFlow AI",
		BodyLimit: cfg.Server.BodyLimitBytes,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: joinOrigins(cfg.Server.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	// Setup routes
	routes.SetupRoutes(app, h, middleware.JWTMiddleware([]byte(cfg.Auth.JWTSecret)), limiter.Handler())

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeoutDuration()); err != nil {
			logrus.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logrus.WithField("addr", addr).Info("serving FashionFlow API")
	if err := app.Listen(addr); err != nil {
		logrus.WithError(err).Error("Server stopped")
	}
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	out := origins[0]
	for _, o := range origins[1:] {
		out += ", " + o
	}
	return out
}
