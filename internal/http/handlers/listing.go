package handlers

import (
	"net/http"
	"strconv"
	"time"

	"giyinme/internal/domain"
)

type uploadItem struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	Bytes       int64     `json:"bytes"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListUploads returns the most recent ledger rows.
func (a *App) ListUploads(w http.ResponseWriter, r *http.Request) {
	if a.Uploads == nil {
		a.text(w, http.StatusNotFound, localize(r.Context(), msgNotFound))
		return
	}
	kind := domain.UploadKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		a.text(w, http.StatusBadRequest, localize(r.Context(), msgInvalidKind))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := a.Uploads.ListRecent(r.Context(), kind, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list uploads failed")
		a.error(w, http.StatusInternalServerError, "Failed to list uploads.")
		return
	}
	items := make([]uploadItem, 0, len(records))
	for _, rec := range records {
		items = append(items, uploadItem{
			ID:          rec.ID,
			Kind:        string(rec.Kind),
			Path:        rec.Key,
			ContentType: rec.ContentType,
			Bytes:       rec.Bytes,
			Width:       rec.Width,
			Height:      rec.Height,
			URL:         rec.URL,
			CreatedAt:   rec.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
