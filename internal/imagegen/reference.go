package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"giyinme/internal/domain"
	"giyinme/pkg/dataurl"
)

// Resolve turns an image reference into inline form. Data URLs are decoded
// in place; http(s) URLs are fetched through the Fetcher.
func (e *Editor) Resolve(ctx context.Context, ref string) (Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return Image{}, errors.New("imagegen: empty image reference")
	case dataurl.Is(ref):
		mimeType, data, err := dataurl.Decode(ref)
		if err != nil {
			return Image{}, fmt.Errorf("imagegen: %w: %w", domain.ErrInvalidDataURL, err)
		}
		return Image{MIMEType: mimeType, Data: data}, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if e.fetcher == nil {
			return Image{}, errors.New("imagegen: no fetcher configured for remote images")
		}
		data, contentType, err := e.fetcher.ProxyDownload(ctx, ref, "")
		if err != nil {
			return Image{}, fmt.Errorf("imagegen: fetch reference: %w", err)
		}
		return Image{MIMEType: imageMIMEType(contentType, data), Data: data}, nil
	}
	return Image{}, fmt.Errorf("imagegen: unsupported image reference %.32q", ref)
}

// imageMIMEType prefers the declared type unless it is generic.
func imageMIMEType(declared string, data []byte) string {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}
