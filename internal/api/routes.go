package api

import (
	"net/http"

	"gymflow/fitness-app/internal/metrics"
	"gymflow/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Auth     service.AuthService
	Plans    service.PlanService
	Exercise service.ExerciseService
	Profile  service.ProfileService
	Diet     service.DietService
	Gyms     service.GymService
}

// RateLimitConfig guards the AI routes. A nil Limiter disables it.
type RateLimitConfig struct {
	Limiter          RequestRateLimiter
	AIRequestsPerMin int
}

func SetupRoutes(
	router *gin.Engine,
	services Services,
	rateLimit RateLimitConfig,
	metricsManager *metrics.Manager,
	metricsHandler http.Handler,
) {
	authHandler := NewAuthHandler(services.Auth)
	planHandler := NewPlanHandler(services.Plans)
	exerciseHandler := NewExerciseHandler(services.Exercise)
	profileHandler := NewProfileHandler(services.Profile)
	nutritionHandler := NewNutritionHandler(services.Diet)
	gymHandler := NewGymHandler(services.Gyms)

	router.Use(PanicRecovery(metricsManager), RequestLogging())
	if metricsManager != nil {
		router.Use(RequestMetrics(metricsManager))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(AuthMiddleware(services.Auth))
	{
		plans := protected.Group("/workout-plans")
		{
			plans.POST("", planHandler.CreatePlan)
			plans.GET("", planHandler.ListPlans)
			plans.GET("/:id", planHandler.GetPlan)
			plans.PUT("/:id", planHandler.UpdatePlan)
			plans.DELETE("/:id", planHandler.DeletePlan)
		}

		exercises := protected.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.ListExercises)
			exercises.GET("/muscle-groups", exerciseHandler.ListMuscleGroups)
			exercises.GET("/:id", exerciseHandler.GetExercise)
		}

		profile := protected.Group("/profile")
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
			profile.POST("/picture/upload-url", profileHandler.RequestPictureUploadURL)
			profile.POST("/picture/confirm", profileHandler.ConfirmPictureUpload)
		}

		aiLimit := RateLimit(rateLimit.Limiter, "ai", rateLimit.AIRequestsPerMin, metricsManager)
		protected.POST("/diet-plan", aiLimit, nutritionHandler.GenerateDietPlan)
		protected.POST("/food-analysis", aiLimit, nutritionHandler.AnalyzeFood)

		protected.GET("/gyms/nearby", gymHandler.NearbyGyms)
	}
}
