package studio

import (
	"encoding/json"
	"strings"
)

const unsupportedMIME = "Unsupported MIME type"

// FriendlyError rewrites err into the banner text shown to the user.
func FriendlyError(err error, context string) string {
	raw := "An unknown error occurred."
	if err != nil {
		raw = err.Error()
	}
	if strings.Contains(raw, unsupportedMIME) {
		var wrapped struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal([]byte(raw), &wrapped) == nil && strings.Contains(wrapped.Error.Message, unsupportedMIME) {
			mimeType := "unsupported"
			if parts := strings.Split(wrapped.Error.Message, ": "); len(parts) > 1 && parts[1] != "" {
				mimeType = parts[1]
			}
			return "File type '" + mimeType + "' is not supported. Please use a format like PNG, JPEG, or WEBP."
		}
		return "Unsupported file format. Please upload an image format like PNG, JPEG, or WEBP."
	}
	return context + ". " + raw
}
