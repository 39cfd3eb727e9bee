package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"giyinme/internal/backend"
	"giyinme/internal/imagegen"
	"giyinme/internal/infra"
	"giyinme/internal/middleware"
	"giyinme/internal/studio"
	"giyinme/internal/wardrobe"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadStudioConfig()
	if err != nil {
		logger := infra.NewLogger("production", "studio")
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := infra.NewLogger(cfg.AppEnv, "studio")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, err := wardrobe.Load(cfg.WardrobeFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.WardrobeFile).Msg("failed to load wardrobe")
	}

	api := backend.NewClient(backend.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout})
	editor, err := imagegen.New(ctx, cfg.GeminiAPIKey, imagegen.Options{
		Model:   cfg.GeminiModel,
		Fetcher: api,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create image client")
	}

	s := newSession(sessionOptions{
		Controller: studio.NewController(editor, api, items, logger),
		API:        api,
		Gate:       studio.NewGate(cfg.Password),
		Locale:     middleware.NormalizeLocale(posixLocale(cfg.Locale)),
		In:         os.Stdin,
		Out:        os.Stdout,
		Logger:     logger,
	})
	logger.Debug().Str("api", cfg.APIBaseURL).Str("model", cfg.GeminiModel).Int("wardrobe", len(items)).Msg("studio ready")
	if err := s.run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("studio stopped")
	}
}

// posixLocale turns values such as "tr_TR.UTF-8" into a BCP 47 tag.
func posixLocale(v string) string {
	if before, _, ok := strings.Cut(v, "."); ok {
		v = before
	}
	return strings.ReplaceAll(v, "_", "-")
}
