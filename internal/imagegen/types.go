package imagegen

import (
	"context"

	"google.golang.org/genai"
)

// DefaultModel is the image-capable Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash-image-preview"

// Image is an inline image payload.
type Image struct {
	MIMEType string
	Data     []byte
}

// ContentGenerator is the slice of the genai client the editor needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Fetcher downloads remote images. The backend client implements it through
// the /proxy-download route.
type Fetcher interface {
	ProxyDownload(ctx context.Context, url, filename string) ([]byte, string, error)
}
