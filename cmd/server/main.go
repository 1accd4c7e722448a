package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/EgehanKilicarslan/tripsync/internal/api"
	"github.com/EgehanKilicarslan/tripsync/internal/auth"
	"github.com/EgehanKilicarslan/tripsync/internal/config"
	"github.com/EgehanKilicarslan/tripsync/internal/database"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
	internalgrpc "github.com/EgehanKilicarslan/tripsync/internal/grpc"
	"github.com/EgehanKilicarslan/tripsync/internal/handler"
	"github.com/EgehanKilicarslan/tripsync/internal/logger"
	"github.com/EgehanKilicarslan/tripsync/internal/metrics"
	"github.com/EgehanKilicarslan/tripsync/internal/middleware"
	"github.com/EgehanKilicarslan/tripsync/internal/storage"
	"github.com/EgehanKilicarslan/tripsync/internal/worker"
)

const (
	rateLimitWindow       = time.Minute
	healthProbeInterval   = 10 * time.Second
	httpReadHeaderTimeout = 10 * time.Second
)

var errShutdownTimeout = errors.New("graceful shutdown timed out")

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("❌ TripSync API exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("👋 [Go] TripSync API stopped")
}

// run starts the servers and blocks until shutdown. Every resource it opens
// is closed before it returns.
func run(cfg *config.Config, appLogger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger.Info("🚀 [Go] Starting TripSync API...",
		"environment", cfg.AppEnv,
		"http_port", cfg.ApiServicePort,
		"grpc_port", cfg.ApiGrpcPort,
	)

	// 3. Connect to Database
	db, err := database.ConnectDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			appLogger.Warn("⚠️ Failed to close database", "error", err)
		}
	}()

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 5. Redis backs the token denylist and rate limits; fall back to local state without it
	var (
		denylist       database.TokenDenylist
		authLimiter    middleware.Limiter
		messageLimiter middleware.Limiter
	)
	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis", "error", err)
		appLogger.Info("💡 Logout revocation disabled, rate limits are per process")
		denylist = database.NewNoOpDenylist(appLogger)
		authLimiter = middleware.NewLocalLimiter(cfg.AuthRateLimit, rateLimitWindow)
		messageLimiter = middleware.NewLocalLimiter(cfg.MessageRateLimit, rateLimitWindow)
	} else {
		denylist = redisClient
		authLimiter = middleware.NewRedisLimiter(redisClient.GetClient(), "auth", cfg.AuthRateLimit, rateLimitWindow, appLogger)
		messageLimiter = middleware.NewRedisLimiter(redisClient.GetClient(), "messages", cfg.MessageRateLimit, rateLimitWindow, appLogger)
	}
	defer denylist.Close()

	// 6. Initialize Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenExpiration)*time.Second)
	authService := service.NewAuthService(userRepo, tokens, denylist, appLogger)
	listingService := service.NewListingService(listingRepo, userRepo, appLogger)
	messageService := service.NewMessageService(messageRepo, userRepo, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	friendshipService := service.NewFriendshipService(friendshipRepo, userRepo, appLogger)
	paymentService := service.NewPaymentService(paymentRepo, listingRepo, appLogger)

	uploader := storage.NewUploader(cfg.UploadDir, cfg.MaxUploadSize, storage.AllowedImageTypes, appLogger)

	// 7. Initialize Handlers & Router
	if err := handler.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}
	appMetrics := metrics.New()

	r := api.SetupRouter(api.Handlers{
		Auth:       handler.NewAuthHandler(authService, appMetrics, appLogger),
		Listing:    handler.NewListingHandler(listingService, appLogger),
		Message:    handler.NewMessageHandler(messageService, appMetrics, appLogger),
		Upload:     handler.NewUploadHandler(uploader, listingService, userService, appMetrics, appLogger),
		User:       handler.NewUserHandler(userService, appLogger),
		Friendship: handler.NewFriendshipHandler(friendshipService, appLogger),
		Payment:    handler.NewPaymentHandler(paymentService, appMetrics, appLogger),
	}, api.RouterConfig{
		AuthMiddleware: middleware.NewAuthMiddleware(authService, appLogger),
		AuthLimiter:    authLimiter,
		MessageLimiter: messageLimiter,
		Metrics:        appMetrics,
		UploadDir:      cfg.UploadDir,
		HealthCheck:    database.HealthCheck(db),
		Logger:         appLogger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           r,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	// 8. gRPC health server for orchestrator probes
	healthServer := internalgrpc.NewHealthServer(database.HealthCheck(db), healthProbeInterval, appLogger)
	grpcServer := grpc.NewServer()
	healthServer.Register(grpcServer)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.ApiGrpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	// 9. Run everything until a signal arrives or a server fails
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTimeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	pool := worker.NewPool(ctx, appLogger)

	pool.Go("http", func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			appLogger.Info("🌍 [Go] HTTP Server running...", "addr", httpServer.Addr)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		}
	})

	pool.Go("grpc", func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			appLogger.Info("🔌 [Go] gRPC Server running...", "port", cfg.ApiGrpcPort)
			errCh <- grpcServer.Serve(grpcListener)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			grpcServer.GracefulStop()
			return nil
		}
	})

	pool.Go("health-probe", func(ctx context.Context) error {
		healthServer.Run(ctx)
		return nil
	})

	<-pool.Done()
	if pool.Err() == nil {
		appLogger.Info("🛑 [Go] Shutdown signal received")
	}

	clean := pool.Shutdown(shutdownTimeout)
	if err := pool.Err(); err != nil {
		return err
	}
	if !clean {
		return errShutdownTimeout
	}
	return nil
}
