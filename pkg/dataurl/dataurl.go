// Package dataurl encodes and decodes base64 data URLs
// (data:<mime>;base64,<payload>).
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalid = errors.New("invalid data url")

// Is reports whether s looks like a data URL.
func Is(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// Encode builds a base64 data URL.
func Encode(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode splits a base64 data URL into its MIME type and payload bytes.
func Decode(s string) (string, []byte, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !Is(header) {
		return "", nil, ErrInvalid
	}
	mimeType, params, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	if mimeType == "" {
		return "", nil, errors.New("could not parse MIME type from data url")
	}
	if !strings.Contains(params, "base64") {
		return "", nil, ErrInvalid
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", nil, errors.Join(ErrInvalid, err)
	}
	return mimeType, data, nil
}
