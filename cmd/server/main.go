package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymflow/fitness-app/internal/api"
	"gymflow/fitness-app/internal/catalog"
	"gymflow/fitness-app/internal/config"
	"gymflow/fitness-app/internal/integrations/gemini"
	"gymflow/fitness-app/internal/integrations/places"
	"gymflow/fitness-app/internal/logging"
	"gymflow/fitness-app/internal/metrics"
	"gymflow/fitness-app/internal/repository/mongo"
	"gymflow/fitness-app/internal/service"
	"gymflow/fitness-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// @title GymFlow API
// @version 1.0
// @description Workout plans, exercise catalog, profile, diet planner and gym search.
// @host localhost:8080
// @BasePath /
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
	logging.Setup(cfg.Logging)
	log.Info("starting gymflow server ...")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (JWT_SECRET) must be set")
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	cancel()
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB ...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Infof("connected to database %s", cfg.Database.Name)

	// --- Ensure Indexes ---
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), time.Minute)
	g, gCtx := errgroup.WithContext(indexCtx)
	for collection, ensure := range mongo.AllIndexes() {
		g.Go(func() error {
			if err := ensure(gCtx, appDB); err != nil {
				log.Errorf("ensure indexes for %s: %s", collection, err)
				return err
			}
			log.Debugf("indexes ready for %s", collection)
			return nil
		})
	}
	err = g.Wait()
	cancelIndexes()
	if err != nil {
		log.Fatalf("could not create database indexes: %s", err)
	}

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %s", err)
	}

	exerciseCatalog, err := catalog.Load()
	if err != nil {
		log.Fatalf("failed to load exercise catalog: %s", err)
	}

	// --- Metrics ---
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, promRegistry)

	// --- External APIs ---
	geminiClient := gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if !geminiClient.IsAvailable() {
		log.Warn("gemini.api_key not set, diet plans and food analysis are disabled")
	}
	placesClient := places.NewClient(cfg.Maps.BaseURL, cfg.Maps.APIKey, cfg.Maps.Timeout, cfg.Maps.CacheSizeMB, cfg.Maps.CacheTTL)
	placesClient.SetDefaultRadius(cfg.Maps.DefaultRadius)
	if !placesClient.IsAvailable() {
		log.Warn("maps.api_key not set, gym search is disabled")
	}

	rateLimit := api.RateLimitConfig{AIRequestsPerMin: cfg.Redis.AIRequestsPerMin}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("close redis: %s", err)
			}
		}()

		rdbStatus := rdb.Ping(context.Background())
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		rateLimit.Limiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Warn("redis.addr not set, AI routes are not rate limited")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoWorkoutPlanRepository(appDB)
	uploadRepo := mongo.NewMongoUploadRepository(appDB)

	// --- Initialize Services ---
	services := api.Services{
		Auth:     service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Plans:    service.NewPlanService(planRepo, metricsManager),
		Exercise: service.NewExerciseService(exerciseCatalog),
		Profile:  service.NewProfileService(userRepo, uploadRepo, fileStorage),
		Diet:     service.NewDietService(geminiClient, metricsManager),
		Gyms:     service.NewGymService(placesClient, metricsManager),
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	metricsHandler := promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{Registry: promRegistry})
	api.SetupRoutes(router, services, rateLimit, metricsManager, metricsHandler)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // AI answers can take a while
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server ...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Info("server exiting")
}
