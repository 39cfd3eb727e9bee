package storage

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	_ "golang.org/x/image/webp"
)

// ImageInfo describes an uploaded image. Width and Height are zero when the
// bytes could not be decoded.
type ImageInfo struct {
	ContentType string
	Format      string
	Width       int
	Height      int
}

// Inspect sniffs the content type and reads the image header.
func Inspect(data []byte) ImageInfo {
	info := ImageInfo{ContentType: http.DetectContentType(data)}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return info
	}
	info.Format = format
	info.Width = cfg.Width
	info.Height = cfg.Height
	return info
}
