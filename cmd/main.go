package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"

	"gradetracker/internal/config"
	"gradetracker/internal/database"
	"gradetracker/internal/handler"
	"gradetracker/internal/logging"
	"gradetracker/internal/service"
	"gradetracker/internal/storage"
)

func main() {
	cfg, err := config.Load()
	noErr(err)

	logger, err := logging.New(cfg.LogLevel)
	noErr(err)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize persistence
	kv, closeKV, err := openKV(ctx, cfg, logger.Named("storage"))
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer closeKV()

	// Initialize services
	store := service.NewGradeStore(ctx, kv, cfg.Storage.Key, logger.Named("grade-store"))
	importService := service.NewImportService(store, logger.Named("import-service"))

	// Setup router
	r := handler.NewRouter(store, importService, service.DefaultRand, logger)

	accessLog := &zapio.Writer{Log: logger.Named("http"), Level: zapcore.InfoLevel}
	defer accessLog.Close()

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.LoggingHandler(accessLog, cors(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	// Start server
	logger.Info("server running", zap.String("port", cfg.Port), zap.String("storage", cfg.Storage.Driver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// openKV returns the key-value store selected by the configuration and a
// function releasing its resources.
func openKV(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.KV, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return storage.NewMemoryKV(), func() {}, nil

	case config.DriverRedis:
		kv, err := storage.NewRedisKV(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		return kv, func() { _ = kv.Close() }, nil

	default:
		db, err := database.InitDB(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return storage.NewGormKV(db), closeDB, nil
	}
}

func noErr(err error) {
	if err != nil {
		fmt.Printf("failed to initialize something important: %v\n", err)
		panic(err)
	}
}
