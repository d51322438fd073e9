package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messenger-service/internal/auth"
	"messenger-service/internal/config"
	"messenger-service/internal/db"
	"messenger-service/internal/handlers"
	"messenger-service/internal/logger"
	"messenger-service/internal/middleware"
	"messenger-service/internal/observability"
	"messenger-service/internal/rabbitmq"
	"messenger-service/internal/repositories"
	"messenger-service/internal/storage"
	"messenger-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.New(cfg.Environment)
	logger.SetGlobalLogger(appLog)
	defer appLog.Sync()

	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		appLog.Fatalf("failed to init tracing: %v", err)
	}

	database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		appLog.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	store, err := storage.NewClient(ctx, storage.S3Config{
		Region:     cfg.Storage.Region,
		Bucket:     cfg.Storage.Bucket,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicBase: cfg.Storage.PublicBase,
	})
	if err != nil {
		appLog.Fatalf("failed to init object store: %v", err)
	}

	publisher := rabbitmq.NewPublisher(cfg.Audit.AMQPURL, cfg.Audit.Exchange)
	defer publisher.Close()
	appLog.Infof("audit publisher mode=%s reason=%s", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))
	auditEmitter := telemetry.NewAuditEmitter(publisher, cfg.Audit.RoutingKey, cfg.ServiceName, cfg.Environment)

	hasher, err := auth.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		appLog.Fatalf("failed to init password hasher: %v", err)
	}

	userRepo := repositories.NewUserRepo(database)
	friendshipRepo := repositories.NewFriendshipRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// middlewares
	router.Use(
		middleware.Recovery(appLog),
		middleware.RequestID(),
		middleware.CallerIdentity(),
		middleware.AllowAnyOrigin(),
		middleware.Logging(appLog),
		otelgin.Middleware(cfg.ServiceName),
		observability.HTTPMetricsMiddleware(),
	)

	router.GET("/metrics", observability.MetricsHandler())

	handlers.RegisterRoutes(router, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(userRepo, hasher, auditEmitter),
		Friends: handlers.NewFriendsHandler(userRepo, friendshipRepo, auditEmitter),
		Chats:   handlers.NewChatsHandler(chatRepo, messageRepo, auditEmitter),
		Files:   handlers.NewFilesHandler(store, cfg.Storage.KeyPrefix, cfg.Storage.MaxUploadBytes, auditEmitter),
		Health:  handlers.Health(database),
	})
	handlers.RegisterDebugRoutes(router, auditEmitter, !cfg.IsProduction())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Infof("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Errorf("server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Errorf("tracing shutdown: %v", err)
	}
}
