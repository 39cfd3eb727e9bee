package handlers

import (
	"context"

	"giyinme/internal/middleware"
)

type messageKey int

const (
	msgNoFile messageKey = iota
	msgFileTooLarge
	msgNoImageData
	msgBodyTooLarge
	msgMissingURL
	msgInvalidURL
	msgUpstreamError
	msgProxyFailed
	msgForbidden
	msgNotFound
	msgInvalidKind
)

var catalog = map[string]map[messageKey]string{
	"en": {
		msgNoFile:        "No file uploaded.",
		msgFileTooLarge:  "File is too large.",
		msgNoImageData:   "No image data provided.",
		msgBodyTooLarge:  "Request body is too large.",
		msgMissingURL:    "Missing url",
		msgInvalidURL:    "Invalid url",
		msgUpstreamError: "Upstream error: ",
		msgProxyFailed:   "Proxy failed",
		msgForbidden:     "Forbidden",
		msgNotFound:      "Not found",
		msgInvalidKind:   "Invalid upload kind.",
	},
	"tr": {
		msgNoFile:        "Dosya yüklenmedi.",
		msgFileTooLarge:  "Dosya çok büyük.",
		msgNoImageData:   "Görsel verisi gönderilmedi.",
		msgBodyTooLarge:  "İstek gövdesi çok büyük.",
		msgMissingURL:    "url eksik",
		msgInvalidURL:    "Geçersiz url",
		msgUpstreamError: "Kaynak hatası: ",
		msgProxyFailed:   "Proxy başarısız oldu",
		msgForbidden:     "Erişim reddedildi",
		msgNotFound:      "Bulunamadı",
		msgInvalidKind:   "Geçersiz yükleme türü.",
	},
}

func localize(ctx context.Context, key messageKey) string {
	if msgs, ok := catalog[middleware.LocaleFromContext(ctx)]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return catalog["en"][key]
}
