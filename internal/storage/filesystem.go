package storage

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const metaSuffix = ".meta.json"

// FileStore persists objects onto the local filesystem. It is intended for
// development and test environments where the bucket is not available.
// Signed URLs point at the backend's /objects route and carry an HMAC over
// the key and expiry.
type FileStore struct {
	basePath string
	baseURL  string
	secret   []byte
	now      func() time.Time
}

// NewFileStore initializes a FileStore rooted at basePath. A random signing
// secret is generated when none is given, which invalidates old URLs on
// restart.
func NewFileStore(basePath, baseURL string, secret []byte) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("storage: generate signing secret: %w", err)
		}
	}
	return &FileStore{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		secret:   secret,
		now:      time.Now,
	}, nil
}

// Put writes data and its metadata sidecar, returning the canonical key.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, meta Meta) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := s.fullPath(cleanKey)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("storage: encode metadata: %w", err)
	}
	if err := os.WriteFile(fullPath+metaSuffix, rawMeta, 0o644); err != nil {
		return "", fmt.Errorf("storage: write metadata: %w", err)
	}
	return cleanKey, nil
}

// Open reads an object and its metadata.
func (s *FileStore) Open(ctx context.Context, key string) ([]byte, Meta, error) {
	var meta Meta
	if err := ctx.Err(); err != nil {
		return nil, meta, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, meta, err
	}
	if strings.HasSuffix(cleanKey, metaSuffix) {
		return nil, meta, ErrObjectNotFound
	}
	fullPath := s.fullPath(cleanKey)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, meta, ErrObjectNotFound
		}
		return nil, meta, fmt.Errorf("storage: read file: %w", err)
	}
	if rawMeta, err := os.ReadFile(fullPath + metaSuffix); err == nil {
		_ = json.Unmarshal(rawMeta, &meta)
	}
	return data, meta, nil
}

// PublicURL returns the unsigned object URL. The /objects route rejects it,
// the same way a private bucket rejects its public URLs.
func (s *FileStore) PublicURL(key string) string {
	return s.baseURL + "/" + escapeKey(key)
}

// SignedURL returns a URL valid for ttl.
func (s *FileStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	expires := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", signKey(s.secret, cleanKey, expires))
	return s.PublicURL(cleanKey) + "?" + q.Encode(), nil
}

// Verify checks a signature produced by SignedURL.
func (s *FileStore) Verify(key, expires, signature string) error {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return ErrInvalidSignature
	}
	return verifyKey(s.secret, cleanKey, expires, signature, s.now())
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) fullPath(cleanKey string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
}

func escapeKey(key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}

var _ ObjectStore = (*FileStore)(nil)
