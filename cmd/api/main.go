package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"jobportal/internal/api"
	"jobportal/internal/auth"
	"jobportal/internal/board"
	"jobportal/internal/config"
	"jobportal/internal/database"
	"jobportal/internal/logging"
	"jobportal/internal/scan"
	"jobportal/internal/storage"
	"jobportal/internal/tasks"
)

func main() {
	cfg := config.MustLoad()
	logger := logging.New(cfg.App.Env)
	ctx := context.Background()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	logger.Info("database ready", slog.String("driver", cfg.Database.Driver))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	storageClient, err := storage.NewClient(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	authService, err := loadAuthService(cfg.Auth)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	opts := board.Options{
		Storage:        storageClient,
		Purge:          tasks.NewQueue(asynqClient),
		Logger:         logger,
		ResumeURLTTL:   cfg.Upload.ResumeURLTTL,
		MaxResumeBytes: cfg.Upload.MaxResumeBytes,
	}
	if scanner := scan.NewClamdScanner(cfg.Clamd.Addr); scanner != nil {
		opts.Scanner = scanner
		logger.Info("resume scanning enabled", slog.String("clamd_addr", cfg.Clamd.Addr))
	} else {
		logger.Warn("clamd address not set, resumes are stored without a malware scan")
	}
	boardService := board.NewService(db, opts)

	router, err := api.NewRouter(cfg, logger)
	if err != nil {
		log.Fatalf("build router: %v", err)
	}
	api.RegisterRoutes(router, api.Dependencies{
		Board:        boardService,
		Auth:         authService,
		Sessions:     auth.NewSessionStore(redisClient),
		Throttle:     auth.NewLoginThrottle(redisClient, cfg.Auth.LoginRateLimitPerHour, cfg.Auth.LoginLockThreshold, cfg.Auth.LoginLockTTL),
		CookieDomain: cfg.API.CookieDomain,
	})

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("address", address))
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}

func loadAuthService(cfg config.AuthConfig) (*auth.AuthService, error) {
	privatePEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return auth.NewAuthService(privatePEM, publicPEM, cfg.SessionTTL)
}
