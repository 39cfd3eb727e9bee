package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"giyinme/internal/domain"
)

// ServeObject serves filesystem objects behind signed URLs.
func (a *App) ServeObject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.Objects == nil {
		a.text(w, http.StatusNotFound, localize(ctx, msgNotFound))
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/objects/")
	q := r.URL.Query()
	if err := a.Objects.Verify(key, q.Get("expires"), q.Get("signature")); err != nil {
		a.text(w, http.StatusForbidden, localize(ctx, msgForbidden))
		return
	}
	data, meta, err := a.Objects.Open(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.text(w, http.StatusNotFound, localize(ctx, msgNotFound))
			return
		}
		a.Logger.Error().Err(err).Str("key", key).Msg("object read failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if meta.CacheControl != "" {
		w.Header().Set("Cache-Control", meta.CacheControl)
	}
	if meta.ContentDisposition != "" {
		w.Header().Set("Content-Disposition", meta.ContentDisposition)
	}
	http.ServeContent(w, r, path.Base(key), time.Time{}, bytes.NewReader(data))
}
