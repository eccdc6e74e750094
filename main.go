package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkup_server/controllers"
	"linkup_server/middleware"
	"linkup_server/routes"
	"linkup_server/services"
	"linkup_server/socket"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize AWS clients
	dynamoClient, err := services.InitializeDynamoDBClient(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize DynamoDB client", zap.Error(err))
	}
	dynamoService := &services.DynamoService{Client: dynamoClient}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	s3Service := &services.S3Service{
		Client: s3.NewFromConfig(awsCfg),
		Bucket: os.Getenv("S3_BUCKET_NAME"),
		Region: os.Getenv("AWS_REGION"),
	}
	emailService := &services.EmailService{
		Client: sesv2.NewFromConfig(awsCfg),
		From:   os.Getenv("EMAIL_FROM"),
		Logger: logger,
	}

	// Initialize realtime push
	socketServer := socket.NewServer(logger)
	go func() {
		if err := socketServer.Serve(); err != nil {
			logger.Error("socket server stopped", zap.Error(err))
		}
	}()
	defer socketServer.Close()

	// Initialize services
	userService := &services.UserService{Dynamo: dynamoService, Images: s3Service, Logger: logger}
	notificationService := &services.NotificationService{
		Dynamo:      dynamoService,
		Users:       userService,
		Broadcaster: socketServer,
		Logger:      logger,
	}
	outboxService := services.NewOutboxService(dynamoService, emailService, logger)
	connectionService := &services.ConnectionService{
		Dynamo:        dynamoService,
		Users:         userService,
		Notifications: notificationService,
		Outbox:        outboxService,
		Logger:        logger,
	}
	postService := &services.PostService{
		Dynamo:        dynamoService,
		Images:        s3Service,
		Notifications: notificationService,
		Logger:        logger,
	}

	outboxService.Start(ctx)
	defer outboxService.Stop()

	// Drop idle rate-limiter entries in the background
	go func() {
		ticker := time.NewTicker(3 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			middleware.CleanupVisitors(10 * time.Minute)
		}
	}()

	// Initialize the router
	middleware.InitPrometheus()
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.MonitorMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler())).Methods("GET")
	r.Handle("/socket.io/", socketServer.Handler())

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Authenticate(userService, jwtSecret, logger))
	routes.RegisterConnectionRoutes(api, controllers.NewConnectionController(connectionService, logger))
	routes.RegisterNotificationRoutes(api, controllers.NewNotificationController(notificationService, logger))
	routes.RegisterPostRoutes(api, controllers.NewPostController(postService, logger))
	routes.RegisterUserRoutes(api, controllers.NewUserController(userService, logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}
