package api

import (
	"net/http"

	"ironlog/fitness-tracker/internal/insights"
	"ironlog/fitness-tracker/internal/metrics"
	"ironlog/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services and infrastructure the HTTP layer is wired to.
type Dependencies struct {
	JWTSecret       string
	AuthService     service.AuthService
	WorkoutService  service.WorkoutService
	InsightsService insights.Service
	Metrics         *metrics.Manager
	MetricsHandler  http.Handler
	// RateLimiter guards the insights route; nil disables rate limiting.
	RateLimiter    RequestRateLimiter
	InsightsPerMin int
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.AuthService)
	workoutHandler := NewWorkoutHandler(deps.WorkoutService)
	insightsHandler := NewInsightsHandler(deps.InsightsService)

	authMiddleware := AuthMiddleware(deps.JWTSecret)

	router.Use(RequestLogger(), RequestMetrics(deps.Metrics))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		apiV1.GET("/catalog", GetCatalog)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.GET("/analytics", workoutHandler.GetAnalytics)
			workoutGroup.POST("/rename-exercise", workoutHandler.RenameExercise)
			workoutGroup.POST("/export", workoutHandler.ExportWorkouts)
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)
		}

		insightsChain := []gin.HandlerFunc{}
		if deps.RateLimiter != nil {
			insightsChain = append(insightsChain, RateLimit(deps.RateLimiter, "insights", deps.InsightsPerMin, deps.Metrics))
		}
		insightsChain = append(insightsChain, insightsHandler.Ask)
		protected.POST("/insights", insightsChain...)
	}
}
