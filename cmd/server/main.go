// @title        CivicFix API
// @version      1.0
// @description  Backend for citizen-reported civic issues with photo evidence
// @description  verification and reverse geocoding.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Syed-Ali-7/civicfix-backend/internal/api"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/service"
	"github.com/Syed-Ali-7/civicfix-backend/internal/infrastructure/db/mongo"
	"github.com/Syed-Ali-7/civicfix-backend/internal/infrastructure/db/redis"
	"github.com/Syed-Ali-7/civicfix-backend/internal/infrastructure/exif"
	"github.com/Syed-Ali-7/civicfix-backend/internal/infrastructure/geocode"
	"github.com/Syed-Ali-7/civicfix-backend/internal/infrastructure/storage"
	"github.com/Syed-Ali-7/civicfix-backend/internal/pkg/config"
	"github.com/Syed-Ali-7/civicfix-backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	issueRepo := mongo.NewIssueRepository(db)
	authRepo := mongo.NewAuthRepository(db)
	if err := issueRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("issue index creation failed")
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	extractor, err := exif.NewExtractor(cfg.Evidence.ExtractWorkers, cfg.Evidence.ExtractTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("exiftool startup failed")
	}
	defer extractor.Close()

	photoStore, err := storage.NewLocalPhotoStore(cfg.UploadDir, cfg.PublicBaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("upload directory setup failed")
	}

	geocoder := redis.NewGeocodeCache(
		rdb,
		geocode.NewClient(geocode.Config{
			BaseURL:     cfg.Geocode.BaseURL,
			UserAgent:   cfg.Geocode.UserAgent,
			Zoom:        cfg.Geocode.Zoom,
			Timeout:     cfg.Geocode.Timeout,
			MinInterval: cfg.Geocode.MinInterval,
		}, log),
		cfg.Geocode.CacheTTL,
		log,
	)

	// --- Core services ---
	verifier := service.NewVerifier(extractor, domain.EvidencePolicy{
		MaxDistanceMeters: cfg.Evidence.MaxDistanceMeters,
		MaxPhotoAge:       cfg.Evidence.MaxPhotoAge,
	}, log)
	issueService := service.NewIssueService(issueRepo, verifier, geocoder, photoStore, log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 12*time.Hour)

	// --- HTTP ---
	e := api.NewRouter(db, rdb, issueService, authService, api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("civicfix api started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
