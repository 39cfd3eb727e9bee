package storage

import (
	"testing"
	"time"
)

func TestUploadKeys(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"user", UserUploadKey(now, "me.jpg"), "user-uploads/1700000000123_me.jpg"},
		{"garment", GarmentUploadKey(now, "shirt.png"), "garment-uploads/1700000000123_shirt.png"},
		{"generated", GeneratedKey(now), "user-generated-uploads/1700000000123.png"},
		{"strips dirs", UserUploadKey(now, "../../etc/passwd"), "user-uploads/1700000000123_passwd"},
		{"windows path", GarmentUploadKey(now, `C:\photos\top.webp`), "garment-uploads/1700000000123_top.webp"},
		{"empty name", UserUploadKey(now, "  "), "user-uploads/1700000000123_upload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q want %q", tt.got, tt.want)
			}
		})
	}
}
