package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/controllers"
	"gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/health"
	container "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Container"
	implementation "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Repository/Implementation"

	authService "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/auth"
	feedService "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/feed"
	ingestService "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/ingest"
	jwt "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/jwt"
	authMiddleware "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/middleware"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting API Service")

	// Initialize database: migrations plus the default operator seed
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ctr.InitializeDatabase(ctx); err != nil {
		logger.FatalWithError(err, "Failed to initialize database")
	}

	db, err := ctr.GetDatabase()
	if err != nil {
		logger.FatalWithError(err, "Failed to get database connection")
	}

	// Create repositories
	readingRepo := implementation.NewSQLiteReadingRepository(db)
	userRepo := implementation.NewSQLiteUserRepository(db)
	machineRepo := implementation.NewSQLiteMachineRepository(db)

	config := ctr.GetConfig()

	// Initialize JWT service for token issuance and validation
	jwtConfig := api_models.Config{
		SecretKey:     config.Auth.JWTSecretKey,
		TokenDuration: config.Auth.TokenDuration,
		Issuer:        config.Auth.JWTIssuer,
	}
	jwtService := jwt.NewService(jwtConfig)

	// Device auth guard
	authMiddlewareInstance := authMiddleware.NewAuthMiddleware(jwtService)

	// Application services
	authServiceInstance := authService.NewAuthService(userRepo, jwtService)
	ingestServiceInstance := ingestService.NewService(readingRepo, logger)
	liveFeed := feedService.New(readingRepo, config.Feed.PollInterval, config.Feed.WindowSize, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configure CORS from config
	corsConfig := cors.Config{
		AllowOrigins:     config.CORS.AllowedOrigins,
		AllowMethods:     config.CORS.AllowedMethods,
		AllowHeaders:     config.CORS.AllowedHeaders,
		ExposeHeaders:    config.CORS.ExposedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           time.Duration(config.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// Create controllers and register routes
	authController := controllers.NewAuthController(authServiceInstance, jwtService, config.Auth.DeviceID)
	machineController := controllers.NewMachineController(machineRepo, logger)
	sensorController := controllers.NewSensorController(ingestServiceInstance, liveFeed, logger, authMiddlewareInstance)
	healthController := controllers.NewHealthController(health.NewHealthChecker(db))

	authController.RegisterRoutes(router)
	machineController.RegisterRoutes(router)
	sensorController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)

	port := config.Server.Port

	// Create HTTP server. WriteTimeout stays zero: the live stream holds
	// viewer connections open indefinitely.
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     router,
		ReadTimeout: config.Server.ReadTimeout,
		IdleTimeout: config.Server.IdleTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	logger.Info("API service running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}
}
