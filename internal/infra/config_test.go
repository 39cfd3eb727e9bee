package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresServiceAccount(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("GCP_SA_KEY_BASE64", "")
	t.Setenv("BUCKET_NAME", "bucket")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when GCP_SA_KEY_BASE64 is missing")
	}
}

func TestLoadConfigRequiresBucket(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "gcs")
	t.Setenv("GCP_SA_KEY_BASE64", "e30=")
	t.Setenv("BUCKET_NAME", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when BUCKET_NAME is missing")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "gcs")
	t.Setenv("GCP_SA_KEY_BASE64", "e30=")
	t.Setenv("BUCKET_NAME", "bucket")
	t.Setenv("PORT", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("SIGNED_URL_TTL_HOURS", "")
	t.Setenv("ALLOWED_ORIGIN", "")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "3001" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "3001")
	}
	if cfg.MaxUploadBytes != 15<<20 {
		t.Fatalf("MaxUploadBytes mismatch: got %d", cfg.MaxUploadBytes)
	}
	if cfg.SignedURLTTL != 7*24*time.Hour {
		t.Fatalf("SignedURLTTL mismatch: got %s", cfg.SignedURLTTL)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
	if cfg.StorageBaseURL != "http://localhost:3001/objects" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
}

func TestLoadConfigFilesystemDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "filesystem")
	t.Setenv("GCP_SA_KEY_BASE64", "")
	t.Setenv("STORAGE_PATH", t.TempDir())
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")
	t.Setenv("ALLOWED_ORIGIN", "https://giyin-me.onrender.com, http://localhost:5173 ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:1919/objects" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
	want := []string{"https://giyin-me.onrender.com", "http://localhost:5173"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadStudioConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "key-from-vite")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("VITE_API_BASE_URL", "https://api.example.com/")

	cfg, err := LoadStudioConfig()
	if err != nil {
		t.Fatalf("LoadStudioConfig returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "key-from-vite" {
		t.Fatalf("GeminiAPIKey mismatch: got %q", cfg.GeminiAPIKey)
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Fatalf("APIBaseURL mismatch: got %q", cfg.APIBaseURL)
	}
}

func TestLoadStudioConfigRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	if _, err := LoadStudioConfig(); err == nil {
		t.Fatal("expected error without an API key")
	}
}
