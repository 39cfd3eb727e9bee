package geoip

import (
	"errors"
	"testing"
)

func TestNilResolver(t *testing.T) {
	r, err := Open("  ")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil resolver for empty path")
	}
	if _, err := r.CountryCode("203.0.113.1"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("CountryCode error = %v, want ErrUnavailable", err)
	}
	if r.Lookup() != nil {
		t.Fatal("expected nil lookup for nil resolver")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open(t.TempDir() + "/missing.mmdb"); err == nil {
		t.Fatal("expected error for missing database")
	}
}
