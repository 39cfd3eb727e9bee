package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL matches the backend's default listen port.
const DefaultBaseURL = "http://localhost:3001"

// maxErrorBody bounds how much of a failed response is kept in errors.
const maxErrorBody = 4 << 10

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed. Status: %d, Message: %s", e.Op, e.Status, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the upload/proxy backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 180 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{httpClient: client, baseURL: base}
}

type uploadResult struct {
	Message   string `json:"message"`
	URL       string `json:"url"`
	SignedURL string `json:"signedUrl"`
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

// UploadOriginal stores the user's source photo and returns its public URL.
func (c *Client) UploadOriginal(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	res, err := c.uploadFile(ctx, "/upload", "user_image", filename, contentType, data)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// UploadGarment stores a garment photo and returns its signed URL.
func (c *Client) UploadGarment(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	res, err := c.uploadFile(ctx, "/upload-garment", "garment_image", filename, contentType, data)
	if err != nil {
		return "", err
	}
	if res.URL == "" {
		return "", errors.New("backend returned no url")
	}
	return res.URL, nil
}

// UploadGenerated persists a generated data URL and returns a durable URL.
func (c *Client) UploadGenerated(ctx context.Context, imageData string) (string, error) {
	body, err := json.Marshal(map[string]string{"imageData": imageData})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-generated", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	var res uploadResult
	if err := c.do(req, "Generated image upload", &res); err != nil {
		return "", err
	}
	if res.URL == "" {
		return "", errors.New("backend returned no url")
	}
	return res.URL, nil
}

// ProxyDownload fetches target through the backend and returns the bytes and
// content type.
func (c *Client) ProxyDownload(ctx context.Context, target, filename string) ([]byte, string, error) {
	q := url.Values{}
	q.Set("url", target)
	if filename != "" {
		q.Set("filename", filename)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/proxy-download?"+q.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "Download"); err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) uploadFile(ctx context.Context, path, field, filename, contentType string, data []byte) (*uploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var res uploadResult
	if err := c.do(req, "Upload to "+path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, op); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
}
