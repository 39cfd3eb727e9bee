package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"

	"giyinme/internal/domain"
	"giyinme/internal/storage"
)

// multipartOverhead leaves room for boundaries and other form fields on top
// of the file size limit.
const multipartOverhead = 1 << 20

// dataURLPrefix also accepts subtypes with dots, dashes and plus signs such
// as svg+xml; the payload is always stored as image/png.
var dataURLPrefix = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

type uploadResponse struct {
	Message   string `json:"message"`
	URL       string `json:"url"`
	SignedURL string `json:"signedUrl,omitempty"`
	PublicURL string `json:"publicUrl,omitempty"`
	Path      string `json:"path,omitempty"`
}

type generatedUploadRequest struct {
	ImageData any `json:"imageData"`
}

// UploadUserImage stores the original user photo and returns its public URL.
func (a *App) UploadUserImage(w http.ResponseWriter, r *http.Request) {
	data, header, ok := a.readFormFile(w, r, "user_image")
	if !ok {
		return
	}
	contentType := fileContentType(header, data)
	key, err := a.Store.Put(r.Context(), storage.UserUploadKey(a.now(), header.Filename), data, storage.Meta{ContentType: contentType})
	if err != nil {
		a.Logger.Error().Err(err).Msg("user upload failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	url := a.Store.PublicURL(key)
	a.Logger.Info().Str("key", key).Msg("user image uploaded")
	a.recordUpload(r.Context(), domain.UploadKindUser, key, contentType, url, data)
	a.json(w, http.StatusOK, uploadResponse{
		Message: "File uploaded successfully.",
		URL:     url,
	})
}

// UploadGarment stores a garment photo as an immutable inline object and
// returns a signed read URL alongside the public URL.
func (a *App) UploadGarment(w http.ResponseWriter, r *http.Request) {
	data, header, ok := a.readFormFile(w, r, "garment_image")
	if !ok {
		return
	}
	contentType := fileContentType(header, data)
	meta := storage.Meta{
		ContentType:        contentType,
		CacheControl:       storage.GarmentCacheControl,
		ContentDisposition: "inline",
	}
	key, err := a.Store.Put(r.Context(), storage.GarmentUploadKey(a.now(), header.Filename), data, meta)
	if err != nil {
		a.Logger.Error().Err(err).Msg("garment upload failed")
		a.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	signed, err := a.Store.SignedURL(r.Context(), key, a.Config.SignedURLTTL)
	if err != nil {
		a.Logger.Error().Err(err).Str("key", key).Msg("garment url signing failed")
		a.error(w, http.StatusInternalServerError, "Failed to generate signed URL.")
		return
	}
	a.Logger.Info().Str("key", key).Msg("garment uploaded")
	a.recordUpload(r.Context(), domain.UploadKindGarment, key, contentType, signed, data)
	a.json(w, http.StatusOK, uploadResponse{
		Message:   "Garment uploaded successfully.",
		URL:       signed,
		SignedURL: signed,
		PublicURL: a.Store.PublicURL(key),
		Path:      key,
	})
}

// UploadGenerated stores a rendered data URL as PNG.
func (a *App) UploadGenerated(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxJSONBytes)
	var req generatedUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.text(w, http.StatusBadRequest, localize(r.Context(), msgBodyTooLarge))
			return
		}
		a.text(w, http.StatusBadRequest, localize(r.Context(), msgNoImageData))
		return
	}
	imageData, _ := req.ImageData.(string)
	if imageData == "" {
		a.text(w, http.StatusBadRequest, localize(r.Context(), msgNoImageData))
		return
	}

	data, err := decodeBase64(dataURLPrefix.ReplaceAllString(imageData, ""))
	if err != nil {
		a.Logger.Error().Err(err).Msg("generated image decode failed")
		a.error(w, http.StatusInternalServerError, "Failed to upload generated image.")
		return
	}
	key, err := a.Store.Put(r.Context(), storage.GeneratedKey(a.now()), data, storage.Meta{ContentType: "image/png"})
	if err != nil {
		a.Logger.Error().Err(err).Msg("generated upload failed")
		a.error(w, http.StatusInternalServerError, "Failed to upload generated image.")
		return
	}
	signed, err := a.Store.SignedURL(r.Context(), key, a.Config.SignedURLTTL)
	if err != nil {
		a.Logger.Error().Err(err).Str("key", key).Msg("generated url signing failed")
		a.error(w, http.StatusInternalServerError, "Failed to upload generated image.")
		return
	}
	a.Logger.Info().Str("key", key).Msg("generated image uploaded")
	a.recordUpload(r.Context(), domain.UploadKindGenerated, key, "image/png", signed, data)
	a.json(w, http.StatusOK, uploadResponse{
		Message: "Generated image uploaded successfully.",
		URL:     signed,
		Path:    key,
	})
}

// readFormFile reads one multipart file into memory. It writes the 400
// response itself and reports false when the request carries no usable file.
func (a *App) readFormFile(w http.ResponseWriter, r *http.Request, field string) ([]byte, *multipart.FileHeader, bool) {
	limit := a.Config.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	file, header, err := r.FormFile(field)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.text(w, http.StatusBadRequest, localize(r.Context(), msgFileTooLarge))
			return nil, nil, false
		}
		a.text(w, http.StatusBadRequest, localize(r.Context(), msgNoFile))
		return nil, nil, false
	}
	defer file.Close()
	if header.Size > limit {
		a.text(w, http.StatusBadRequest, localize(r.Context(), msgFileTooLarge))
		return nil, nil, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		a.text(w, http.StatusBadRequest, localize(r.Context(), msgNoFile))
		return nil, nil, false
	}
	return data, header, true
}

func fileContentType(header *multipart.FileHeader, data []byte) string {
	if ct := strings.TrimSpace(header.Header.Get("Content-Type")); ct != "" {
		return ct
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}

// recordUpload writes a ledger row. Failures are logged, never surfaced.
func (a *App) recordUpload(ctx context.Context, kind domain.UploadKind, key, contentType, url string, data []byte) {
	if a.Uploads == nil {
		return
	}
	info := storage.Inspect(data)
	rec := &domain.UploadRecord{
		Kind:        kind,
		Key:         key,
		ContentType: contentType,
		Bytes:       int64(len(data)),
		Width:       info.Width,
		Height:      info.Height,
		URL:         url,
	}
	if err := a.Uploads.Save(ctx, rec); err != nil {
		a.Logger.Warn().Err(err).Str("key", key).Msg("upload ledger write failed")
	}
}
