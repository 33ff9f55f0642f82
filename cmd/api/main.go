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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/adapter/client"
	"github.com/adrianacoliiin/scanna-backend/internal/adapter/http/handler"
	"github.com/adrianacoliiin/scanna-backend/internal/adapter/http/router"
	"github.com/adrianacoliiin/scanna-backend/internal/adapter/repository/mongodb"
	"github.com/adrianacoliiin/scanna-backend/internal/adapter/vision"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/auth"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/cache"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/config"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/database"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/logger"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/metrics"
	"github.com/adrianacoliiin/scanna-backend/internal/infrastructure/storage"
	"github.com/adrianacoliiin/scanna-backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	gin.SetMode(cfg.Server.Mode)

	db, err := database.NewMongoDB(&cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Disconnect(db); err != nil {
			log.Warn("failed to disconnect from database", zap.Error(err))
		}
	}()
	log.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	files, err := storage.NewFileStore(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to prepare upload storage: %w", err)
	}

	met := metrics.New()

	engine, err := vision.NewEngine(cfg.Model, log, met)
	if err != nil {
		return fmt.Errorf("failed to load classification model: %w", err)
	}
	defer engine.Close()

	explainer := client.NewGeminiExplainer(client.NewGeminiClient(&cfg.Gemini), log, met)
	tokens := auth.NewTokenService(&cfg.Auth)

	specialistRepo := mongodb.NewSpecialistRepository(db)
	recordRepo := mongodb.NewRecordRepository(db)

	authUC := usecase.NewAuthUsecase(specialistRepo, tokens, log)
	specialistUC := usecase.NewSpecialistUsecase(specialistRepo, recordRepo, log)
	analysisUC := usecase.NewAnalysisUsecase(recordRepo, engine, explainer, files, log)
	recordUC := usecase.NewRecordUsecase(recordRepo, explainer, files, log)
	dashboardUC := usecase.NewDashboardUsecase(recordRepo, redisClient, log)

	r := router.Setup(router.Dependencies{
		Auth:        handler.NewAuthHandler(authUC, cfg.Auth.TokenExpiry),
		Specialists: handler.NewSpecialistHandler(specialistUC),
		Records:     handler.NewRecordHandler(analysisUC, recordUC, cfg.Storage.MaxUploadBytes),
		Dashboard:   handler.NewDashboardHandler(dashboardUC),
		Health:      handler.NewHealthHandler(db, redisClient, true, version),
		Verifier:    authUC,
		Log:         log,
		UploadDir:   files.BaseDir(),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr), zap.String("version", version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
