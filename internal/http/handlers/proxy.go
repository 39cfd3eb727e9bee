package handlers

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultDownloadName = "image.png"

// ProxyDownload fetches a remote object and streams it back as an
// attachment, so browsers can download cross-origin signed URLs.
func (a *App) ProxyDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		a.text(w, http.StatusBadRequest, localize(ctx, msgMissingURL))
		return
	}
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		a.text(w, http.StatusBadRequest, localize(ctx, msgInvalidURL))
		return
	}
	filename := attachmentName(r.URL.Query().Get("filename"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		a.Logger.Error().Err(err).Msg("proxy request build failed")
		a.text(w, http.StatusInternalServerError, localize(ctx, msgProxyFailed))
		return
	}
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		a.Logger.Error().Err(err).Str("host", target.Host).Msg("proxy download failed")
		a.text(w, http.StatusInternalServerError, localize(ctx, msgProxyFailed))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.text(w, resp.StatusCode, localize(ctx, msgUpstreamError)+statusText(resp))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if resp.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		a.Logger.Warn().Err(err).Msg("proxy stream interrupted")
	}
}

// statusText returns the reason phrase without the numeric code.
func statusText(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if text := strings.TrimPrefix(resp.Status, prefix); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func attachmentName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '\r', '\n':
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return defaultDownloadName
	}
	return name
}
