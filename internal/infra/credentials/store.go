package credentials

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
)

const scopeStorageReadWrite = "https://www.googleapis.com/auth/devstorage.read_write"

// ServiceAccount holds a decoded Google service-account key.
type ServiceAccount struct {
	JSON       []byte
	ProjectID  string
	Email      string
	PrivateKey []byte
}

// DecodeServiceAccount decodes the base64 encoded key JSON carried in the
// GCP_SA_KEY_BASE64 environment variable.
func DecodeServiceAccount(encoded string) (*ServiceAccount, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, errors.New("credentials: service account key is empty")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("credentials: decode base64: %w", err)
	}
	return ParseServiceAccount(raw)
}

// ParseServiceAccount extracts the signing identity from key JSON.
func ParseServiceAccount(raw []byte) (*ServiceAccount, error) {
	var meta struct {
		Type      string `json:"type"`
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("credentials: parse key json: %w", err)
	}
	if meta.Type != "" && meta.Type != "service_account" {
		return nil, fmt.Errorf("credentials: unsupported key type %q", meta.Type)
	}
	conf, err := google.JWTConfigFromJSON(raw, scopeStorageReadWrite)
	if err != nil {
		return nil, fmt.Errorf("credentials: load service account: %w", err)
	}
	if conf.Email == "" || len(conf.PrivateKey) == 0 {
		return nil, errors.New("credentials: client_email and private_key are required")
	}
	return &ServiceAccount{
		JSON:       raw,
		ProjectID:  meta.ProjectID,
		Email:      conf.Email,
		PrivateKey: conf.PrivateKey,
	}, nil
}
