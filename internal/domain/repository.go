package domain

import "context"

// UploadRepository persists the ledger of stored objects.
type UploadRepository interface {
	Save(ctx context.Context, rec *UploadRecord) error
	ListRecent(ctx context.Context, kind UploadKind, limit int) ([]UploadRecord, error)
}
