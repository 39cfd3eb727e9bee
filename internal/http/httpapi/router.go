package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"giyinme/internal/http/handlers"
	"giyinme/internal/infra"
	"giyinme/internal/middleware"
)

// NewRouter mounts every backend route. lookup may be nil when no GeoIP
// database is configured.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.I18N("en", lookup),
	)

	r.Get("/", app.Root)
	r.Get("/health", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
		r.Post("/upload", app.UploadUserImage)
		r.Post("/upload-garment", app.UploadGarment)
		r.Post("/upload-generated", app.UploadGenerated)
	})

	r.Get("/proxy-download", app.ProxyDownload)

	if app.Objects != nil {
		r.Get("/objects/*", app.ServeObject)
	}
	if app.Uploads != nil {
		r.Get("/uploads", app.ListUploads)
	}

	return r
}
