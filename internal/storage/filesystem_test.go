package storage

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"giyinme/internal/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), "http://localhost:3001/objects/", []byte("secret"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStorePutOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	meta := Meta{ContentType: "image/png", CacheControl: GarmentCacheControl, ContentDisposition: "inline"}

	key, err := store.Put(ctx, "/garment-uploads/1_top.png", []byte("png-bytes"), meta)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if key != "garment-uploads/1_top.png" {
		t.Fatalf("unexpected key %q", key)
	}
	data, gotMeta, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(data, []byte("png-bytes")) {
		t.Fatalf("unexpected data %q", data)
	}
	if gotMeta != meta {
		t.Fatalf("unexpected meta %+v", gotMeta)
	}
	if _, _, err := store.Open(ctx, key+metaSuffix); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected sidecar to be hidden, got %v", err)
	}
	if _, _, err := store.Open(ctx, "garment-uploads/missing.png"); !errors.Is(err, ErrObjectNotFound) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	for _, key := range []string{"", "..", "../outside.png", "a/../../b"} {
		if _, err := store.Put(context.Background(), key, []byte("x"), Meta{}); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFileStoreSignedURL(t *testing.T) {
	store := newTestStore(t)
	now := time.Unix(1700000000, 0)
	store.now = func() time.Time { return now }

	signed, err := store.SignedURL(context.Background(), "garment-uploads/1_my top.png", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if !strings.HasPrefix(signed, "http://localhost:3001/objects/garment-uploads/1_my%20top.png?") {
		t.Fatalf("unexpected url %q", signed)
	}
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	key := strings.TrimPrefix(u.Path, "/objects/")
	if err := store.Verify(key, q.Get("expires"), q.Get("signature")); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := store.Verify("garment-uploads/other.png", q.Get("expires"), q.Get("signature")); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected invalid signature for other key, got %v", err)
	}
	if err := store.Verify(key, "not-a-number", q.Get("signature")); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected invalid signature for bad expiry, got %v", err)
	}

	store.now = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	if err := store.Verify(key, q.Get("expires"), q.Get("signature")); !errors.Is(err, ErrURLExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestFileStorePublicURL(t *testing.T) {
	store := newTestStore(t)
	got := store.PublicURL("user-uploads/1_a b.jpg")
	if got != "http://localhost:3001/objects/user-uploads/1_a%20b.jpg" {
		t.Fatalf("unexpected public url %q", got)
	}
}
