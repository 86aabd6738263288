package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/golfteamapp/golfteam-system/config"
	"github.com/golfteamapp/golfteam-system/db"
	"github.com/golfteamapp/golfteam-system/handlers"
	"github.com/golfteamapp/golfteam-system/live"
	"github.com/golfteamapp/golfteam-system/repositories"
	api "github.com/golfteamapp/golfteam-system/routes"
	"github.com/golfteamapp/golfteam-system/services"
	"github.com/golfteamapp/golfteam-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, athlete picture uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live score feed hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	athleteRepo := repositories.NewPostgresAthleteRepository(dbConn)
	partnerRepo := repositories.NewPostgresPartnerRepository(dbConn)
	coachRepo := repositories.NewPostgresCoachRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	scoreRepo := repositories.NewPostgresScoreRepository(dbConn)

	resolver := services.NewCallerResolver(coachRepo, partnerRepo, athleteRepo)
	authService := services.NewAuthService(userRepo)
	athleteService := services.NewAthleteService(athleteRepo, scoreRepo, uploader)
	partnerService := services.NewPartnerService(partnerRepo, athleteRepo, scoreRepo, userRepo)
	coachService := services.NewCoachService(coachRepo, eventRepo, userRepo)
	eventService := services.NewEventService(eventRepo, scoreRepo)
	scoreService := services.NewScoreService(scoreRepo, athleteRepo, hub)
	dashboardService := services.NewDashboardService(userRepo, athleteRepo, partnerRepo, coachRepo, eventRepo, scoreRepo)
	adminDataService := services.NewAdminDataService(athleteRepo, eventRepo, scoreRepo)
	logger.Info("services initialized")

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		cancelSeed()
		logger.Error("failed to seed admin account", slog.Any("error", err))
		os.Exit(1)
	}
	cancelSeed()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	athleteHandler := handlers.NewAthleteHandler(athleteService, resolver)
	partnerHandler := handlers.NewPartnerHandler(partnerService, authService, resolver, cfg.JWTSecretKey)
	coachHandler := handlers.NewCoachHandler(coachService, authService, resolver, cfg.JWTSecretKey)
	eventHandler := handlers.NewEventHandler(eventService, resolver)
	scoreHandler := handlers.NewScoreHandler(scoreService, resolver)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, resolver)
	adminDataHandler := handlers.NewAdminDataHandler(adminDataService, resolver)
	liveHandler := handlers.NewLiveHandler(hub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		athleteHandler,
		partnerHandler,
		coachHandler,
		eventHandler,
		scoreHandler,
		dashboardHandler,
		adminDataHandler,
		liveHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
