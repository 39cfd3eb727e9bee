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

	"giyinme/internal/adapter/repo"
	"giyinme/internal/domain"
	"giyinme/internal/http/handlers"
	httpapi "giyinme/internal/http/httpapi"
	"giyinme/internal/infra"
	"giyinme/internal/infra/credentials"
	"giyinme/internal/infra/geoip"
	"giyinme/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		logger := infra.NewLogger("production", "api")
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to initialise object storage")
	}
	defer store.Close()

	var uploads domain.UploadRepository
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		ledger := repo.NewUploadRepository(infra.NewSQLRunner(dbpool, logger))
		if err := ledger.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare upload ledger")
		}
		uploads = ledger
		logger.Info().Msg("upload ledger enabled")
	}

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, locale hints disabled")
	}
	defer resolver.Close()

	proxyClient := &http.Client{Timeout: cfg.HTTPWriteTimeout}
	app := handlers.NewApp(cfg, store, uploads, proxyClient, logger)
	router := httpapi.NewRouter(app, cfg, logger, resolver.Lookup())
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("storage", cfg.StorageDriver).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func newObjectStore(ctx context.Context, cfg *infra.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case infra.StorageDriverGCS:
		sa, err := credentials.DecodeServiceAccount(cfg.ServiceAccountB64)
		if err != nil {
			return nil, err
		}
		return storage.NewGCSStore(ctx, sa, cfg.BucketName, cfg.GoogleCloudProject)
	case infra.StorageDriverFilesystem:
		return storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL, []byte(cfg.StorageSigningSecret))
	}
	return nil, errors.New("unsupported storage driver " + cfg.StorageDriver)
}

