package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/muhammadegaa/easyhome/internal/adapter/httpapi"
	natsadapter "github.com/muhammadegaa/easyhome/internal/adapter/messaging/nats"
	"github.com/muhammadegaa/easyhome/internal/adapter/repository/cache"
	"github.com/muhammadegaa/easyhome/internal/adapter/repository/gormdb"
	mongorepo "github.com/muhammadegaa/easyhome/internal/adapter/repository/mongodb"
	"github.com/muhammadegaa/easyhome/internal/adapter/storage/s3"
	"github.com/muhammadegaa/easyhome/internal/config"
	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/mailer"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/muhammadegaa/easyhome/internal/platform/metrics"
	"github.com/muhammadegaa/easyhome/internal/platform/tracer"
	"github.com/muhammadegaa/easyhome/internal/usecase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Absent .env is fine; the environment is authoritative.
	}

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTLPEndpoint, appLogger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	metricsManager := metrics.NewManager(cfg.ServiceName)

	var (
		userRepo     domain.UserRepository
		propertyRepo domain.PropertyRepository
		imageRepo    domain.ImageRepository
		favoriteRepo domain.FavoriteRepository
	)

	switch cfg.DBBackend {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			cancel()
			appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			cancel()
			appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
		}
		cancel()
		appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				appLogger.Error("Failed to disconnect MongoDB", zap.Error(err))
			}
		}()

		db := client.Database(cfg.MongoDatabase)
		users, err := mongorepo.NewUserRepository(db, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize user repository", zap.Error(err))
		}
		properties, err := mongorepo.NewPropertyRepository(db, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize property repository", zap.Error(err))
		}
		images, err := mongorepo.NewImageRepository(db, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize image repository", zap.Error(err))
		}
		favorites, err := mongorepo.NewFavoriteRepository(db, properties, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize favorite repository", zap.Error(err))
		}
		userRepo, propertyRepo, imageRepo, favoriteRepo = users, properties, images, favorites

	case "postgres":
		db, err := gormdb.Open(cfg.PostgresDSN)
		if err != nil {
			appLogger.Fatal("Failed to open Postgres connection", zap.Error(err))
		}
		appLogger.Info("Connected to Postgres")
		userRepo = gormdb.NewUserRepository(db, appLogger)
		propertyRepo = gormdb.NewPropertyRepository(db, appLogger)
		imageRepo = gormdb.NewImageRepository(db, appLogger)
		favoriteRepo = gormdb.NewFavoriteRepository(db, appLogger)
	}

	storage, err := s3.NewStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize S3 storage", zap.Error(err))
	}

	var propertyCache usecase.PropertyCache
	if cfg.RedisAddr != "" {
		pc, err := cache.NewPropertyCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			appLogger.Warn("Failed to connect to Redis, continuing without property cache", zap.Error(err))
		} else {
			propertyCache = pc
			defer pc.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
		}
	}

	var events usecase.EventPublisher
	if cfg.NATSURL != "" {
		publisher, err := natsadapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Warn("Failed to connect to NATS, continuing without event publishing", zap.Error(err))
		} else {
			events = publisher
			defer publisher.Close()
		}
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.AppBaseURL, appLogger)

	jwtExpiry := time.Duration(cfg.JWTExpiryHours) * time.Hour
	authUC := usecase.NewAuthUsecase(userRepo, smtpMailer, appLogger, cfg.JWTSecret, jwtExpiry)
	propertyUC := usecase.NewPropertyUsecase(propertyRepo, imageRepo, userRepo, storage, propertyCache, events, appLogger)
	imageUC := usecase.NewImageUsecase(propertyRepo, imageRepo, storage, propertyCache, appLogger)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, propertyRepo, imageRepo, userRepo, propertyCache, appLogger)

	handler := httpapi.NewHandler(authUC, propertyUC, imageUC, favoriteUC, metricsManager, appLogger)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler.Router(cfg.JWTSecret),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		appLogger.Info("HTTP server starting", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped gracefully")
}
