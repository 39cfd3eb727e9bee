package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"giyinme/internal/domain"
	"giyinme/internal/infra"
	"giyinme/internal/storage"
)

// SignedObjectReader serves objects behind locally signed URLs.
// *storage.FileStore implements it.
type SignedObjectReader interface {
	Open(ctx context.Context, key string) ([]byte, storage.Meta, error)
	Verify(key, expires, signature string) error
}

// App carries the dependencies shared by every handler.
type App struct {
	Config     *infra.Config
	Store      storage.ObjectStore
	Objects    SignedObjectReader
	Uploads    domain.UploadRepository
	HTTPClient *http.Client
	Logger     zerolog.Logger

	now func() time.Time
}

// NewApp wires an App. uploads may be nil when no ledger is configured.
func NewApp(cfg *infra.Config, store storage.ObjectStore, uploads domain.UploadRepository, client *http.Client, logger zerolog.Logger) *App {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	app := &App{
		Config:     cfg,
		Store:      store,
		Uploads:    uploads,
		HTTPClient: client,
		Logger:     logger,
		now:        time.Now,
	}
	if reader, ok := store.(SignedObjectReader); ok {
		app.Objects = reader
	}
	return app
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the {message} body the frontend reads on failures.
func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"message": msg})
}

func (a *App) text(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
