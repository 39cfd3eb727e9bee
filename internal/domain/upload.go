package domain

import "time"

// UploadKind enumerates the storage namespaces used by the backend.
type UploadKind string

const (
	UploadKindUser      UploadKind = "user"
	UploadKindGarment   UploadKind = "garment"
	UploadKindGenerated UploadKind = "generated"
)

// Valid reports whether k is one of the known kinds.
func (k UploadKind) Valid() bool {
	switch k {
	case UploadKindUser, UploadKindGarment, UploadKindGenerated:
		return true
	}
	return false
}

// UploadRecord is a ledger entry for an object written to storage.
type UploadRecord struct {
	ID          string
	Kind        UploadKind
	Key         string
	ContentType string
	Bytes       int64
	Width       int
	Height      int
	URL         string
	CreatedAt   time.Time
}
