package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ironlog/fitness-tracker/internal/api"
	"ironlog/fitness-tracker/internal/config"
	"ironlog/fitness-tracker/internal/insights"
	"ironlog/fitness-tracker/internal/logging"
	"ironlog/fitness-tracker/internal/metrics"
	"ironlog/fitness-tracker/internal/notify"
	"ironlog/fitness-tracker/internal/repository/mongo"
	"ironlog/fitness-tracker/internal/service"
	"ironlog/fitness-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// @title Iron Log API
// @version 1.0
// @description Workout logging, analytics and training insights.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Logging.File,
		LogToStdout:   cfg.Logging.ToStdout,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
		MaxSizeMB:     cfg.Logging.MaxSizeMB,
	})
	log.Infoln("starting iron log server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	defer func() {
		log.Infoln("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Infof("connected to database %s", cfg.Database.Name)

	go func() {
		indexCtx, indexCancel := context.WithTimeout(ctx, time.Minute)
		defer indexCancel()
		if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
			log.Warnf("index creation failed: %s", err)
			return
		}
		log.Debugln("index creation completed")
	}()

	// --- Metrics ---
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("ironlog", "main", promRegistry)

	// --- Infrastructure ---
	fileStorage, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %s", err)
	}

	notifier, err := notify.NewFromConfig(ctx, cfg.SNS)
	if err != nil {
		log.Fatalf("failed to initialize notifications: %s", err)
	}

	var rateLimiter api.RequestRateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Errorf("failed to ping redis, insights rate limiting disabled: %s", err)
		} else {
			rateLimiter = redis_rate.NewLimiter(rdb)
		}
	} else {
		log.Warnln("redis.addr not set, insights rate limiting disabled")
	}

	// --- Repositories & Services ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	workoutService := service.NewWorkoutService(workoutRepo, userRepo, notifier, fileStorage, metricsManager, cfg.S3.ExportURLExpiry)
	gemini := insights.NewGeminiClient(
		&http.Client{Timeout: cfg.Gemini.Timeout},
		cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model,
	)
	insightsService := insights.NewService(workoutRepo, gemini, cfg.Gemini.CacheSizeMB, cfg.Gemini.CacheTTL, metricsManager)

	// --- HTTP ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Dependencies{
		JWTSecret:       cfg.JWT.Secret,
		AuthService:     authService,
		WorkoutService:  workoutService,
		InsightsService: insightsService,
		Metrics:         metricsManager,
		MetricsHandler:  promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		RateLimiter:     rateLimiter,
		InsightsPerMin:  cfg.Redis.InsightsPerMin,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infoln("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Infoln("server exiting")
}
