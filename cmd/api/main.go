package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-portfolio-backend/config"
	_ "go-portfolio-backend/docs" // Important for Swagger
	v1 "go-portfolio-backend/internal/delivery/http/v1"
	"go-portfolio-backend/internal/repository/postgres"
	"go-portfolio-backend/internal/usecase"
	"go-portfolio-backend/pkg/ai"
	"go-portfolio-backend/pkg/database"
	"go-portfolio-backend/pkg/logger"
	"go-portfolio-backend/pkg/redis"

	"github.com/go-playground/validator/v10"
)

// @title           Portfolio Editor Backend API
// @version         1.0
// @description     Draft editing, autosave and publishing backend for the portfolio builder.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(context.Background(), cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting; the API keeps working without it)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err.Error())
	}
	defer redis.Close()

	// 5. Setup Repositories
	draftRepo := postgres.NewDraftRepository(dbPool)
	resumeRepo := postgres.NewResumeRepository(dbPool)

	// 6. Setup AI client
	aiClient := ai.NewClient(cfg.AIServiceURL, cfg.AIRequestTimeout)

	// 7. Setup UseCases
	validate := validator.New()
	editorUC := usecase.NewEditorUsecase(draftRepo, validate, cfg.AutosaveQuietPeriod)
	importUC := usecase.NewImportUsecase(aiClient, resumeRepo, editorUC)
	enhanceUC := usecase.NewEnhanceUsecase(aiClient, validate)
	healthUC := usecase.NewHealthUsecase()

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		EditorUC:  editorUC,
		ImportUC:  importUC,
		EnhanceUC: enhanceUC,
		HealthUC:  healthUC,
		Config:    cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	// Drop editing sessions after the listener stops so no request can
	// touch a closed session.
	editorUC.CloseAllSessions()

	logger.Log.Info("Server exiting")
}
