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

	"vinalysis/database"
	"vinalysis/internal/catalog/spotify"
	"vinalysis/internal/config"
	"vinalysis/internal/httpapi/handler"
	"vinalysis/internal/httpapi/middleware"
	"vinalysis/internal/httpapi/repository"
	"vinalysis/internal/httpapi/service"
	"vinalysis/internal/identity/google"
	"vinalysis/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	logging.SetGlobalLogger(logger)

	// Database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get database instance")
	}
	defer sqlDB.Close()

	// Stats cache is optional: without REDIS_URL every stats request
	// recomputes from the ratings table.
	var statsCache *repository.StatsCache
	if cfg.RedisURL != "" {
		statsCache, err = repository.NewStatsCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer statsCache.Close()
		logger.Info().Msg("Connected to redis stats cache")
	} else {
		logger.Warn().Msg("REDIS_URL not set, stats caching disabled")
	}

	// External capabilities
	catalog := spotify.NewClient(spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		APIURL:       cfg.SpotifyAPIURL,
		TokenURL:     cfg.SpotifyTokenURL,
	})
	identity := google.NewClient(google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, identity, cfg)
	albumService := service.NewAlbumService(albumRepo, ratingRepo, catalog)
	ratingService := service.NewRatingService(ratingRepo, albumService, statsCache, logger)
	statsService := service.NewStatsService(ratingRepo, statsCache, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	albumHandler := handler.NewAlbumHandler(albumService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	statsHandler := handler.NewStatsHandler(statsService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	authHandler.RegisterProtectedRoutes(protected)
	albumHandler.RegisterRoutes(protected)
	ratingHandler.RegisterRoutes(protected)
	statsHandler.RegisterRoutes(protected)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info().Int("port", cfg.HTTPPort).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received, stopping server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
