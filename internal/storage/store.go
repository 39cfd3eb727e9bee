package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"giyinme/internal/domain"
)

// Key prefixes for the three upload namespaces.
const (
	PrefixUserUploads      = "user-uploads/"
	PrefixGarmentUploads   = "garment-uploads/"
	PrefixGeneratedUploads = "user-generated-uploads/"
)

// GarmentCacheControl marks garment objects as immutable for a year.
const GarmentCacheControl = "public, max-age=31536000, immutable"

var (
	ErrObjectNotFound   = fmt.Errorf("storage: object %w", domain.ErrNotFound)
	ErrInvalidSignature = errors.New("storage: invalid signature")
	ErrURLExpired       = errors.New("storage: signed url expired")
)

// Meta is the object metadata written alongside the bytes.
type Meta struct {
	ContentType        string `json:"content_type,omitempty"`
	CacheControl       string `json:"cache_control,omitempty"`
	ContentDisposition string `json:"content_disposition,omitempty"`
}

// ObjectStore stores bytes under a key and hands out URLs for them.
// Implementations must be safe for concurrent use.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, meta Meta) (string, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	PublicURL(key string) string
	Close() error
}

// UserUploadKey names an original user photo.
func UserUploadKey(now time.Time, filename string) string {
	return fmt.Sprintf("%s%d_%s", PrefixUserUploads, now.UnixMilli(), cleanFilename(filename))
}

// GarmentUploadKey names an uploaded garment photo.
func GarmentUploadKey(now time.Time, filename string) string {
	return fmt.Sprintf("%s%d_%s", PrefixGarmentUploads, now.UnixMilli(), cleanFilename(filename))
}

// GeneratedKey names a generated render. Renders are always stored as PNG.
func GeneratedKey(now time.Time) string {
	return fmt.Sprintf("%s%d.png", PrefixGeneratedUploads, now.UnixMilli())
}

func cleanFilename(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload"
	}
	return name
}
