package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"giyinme/internal/infra/credentials"
)

// GCSStore writes objects to a Google Cloud Storage bucket and signs V4 read
// URLs with the service account's private key.
type GCSStore struct {
	client     *storage.Client
	bucket     *storage.BucketHandle
	bucketName string
	signer     *credentials.ServiceAccount
}

// NewGCSStore opens a storage client authenticated as sa. Requests are billed
// to projectID, or to the service account's own project when it is empty.
func NewGCSStore(ctx context.Context, sa *credentials.ServiceAccount, bucketName, projectID string) (*GCSStore, error) {
	if sa == nil {
		return nil, errors.New("storage: service account is required")
	}
	if bucketName == "" {
		return nil, errors.New("storage: bucket name is required")
	}
	opts := []option.ClientOption{option.WithCredentialsJSON(sa.JSON)}
	if project := quotaProject(projectID, sa); project != "" {
		opts = append(opts, option.WithQuotaProject(project))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: create gcs client: %w", err)
	}
	return &GCSStore{
		client:     client,
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
		signer:     sa,
	}, nil
}

// Put uploads data in a single non-resumable request.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte, meta Meta) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	w := s.bucket.Object(cleanKey).NewWriter(ctx)
	w.ChunkSize = 0
	w.ContentType = meta.ContentType
	w.CacheControl = meta.CacheControl
	w.ContentDisposition = meta.ContentDisposition
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: finalize object: %w", err)
	}
	return cleanKey, nil
}

// SignedURL returns a V4 signed GET URL. GCS caps V4 expiry at seven days.
func (s *GCSStore) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	signed, err := s.bucket.SignedURL(key, &storage.SignedURLOptions{
		GoogleAccessID: s.signer.Email,
		PrivateKey:     s.signer.PrivateKey,
		Method:         http.MethodGet,
		Expires:        time.Now().Add(ttl),
		Scheme:         storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("storage: sign url: %w", err)
	}
	return signed, nil
}

// PublicURL only works when the bucket grants public read.
func (s *GCSStore) PublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, escapeKey(key))
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func quotaProject(configured string, sa *credentials.ServiceAccount) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	return sa.ProjectID
}

var _ ObjectStore = (*GCSStore)(nil)
