package repo

import (
	"context"
	"errors"
	"fmt"

	"giyinme/internal/domain"
	"giyinme/internal/infra"
	"giyinme/internal/sqlinline"
)

// DefaultListLimit caps ListRecent when the caller passes no limit.
const DefaultListLimit = 50

const maxListLimit = 500

// UploadRepositoryPG implements domain.UploadRepository using PostgreSQL.
type UploadRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUploadRepository constructs a new upload ledger.
func NewUploadRepository(sql infra.SQLExecutor) *UploadRepositoryPG {
	return &UploadRepositoryPG{sql: sql}
}

// EnsureSchema creates the uploads table when missing.
func (r *UploadRepositoryPG) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqlinline.Schema {
		if _, err := r.sql.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure uploads schema: %w", err)
		}
	}
	return nil
}

// Save inserts rec and fills in the generated ID and timestamp.
func (r *UploadRepositoryPG) Save(ctx context.Context, rec *domain.UploadRecord) error {
	if rec == nil {
		return errors.New("upload record is nil")
	}
	if !rec.Kind.Valid() {
		return fmt.Errorf("invalid upload kind %q", rec.Kind)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUpload,
		string(rec.Kind), rec.Key, rec.ContentType, rec.Bytes, rec.Width, rec.Height, rec.URL)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

// ListRecent returns the newest records, optionally filtered by kind.
func (r *UploadRepositoryPG) ListRecent(ctx context.Context, kind domain.UploadKind, limit int) ([]domain.UploadRecord, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("invalid upload kind %q", kind)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListUploads, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.UploadRecord
	for rows.Next() {
		var rec domain.UploadRecord
		var k string
		if err := rows.Scan(&rec.ID, &k, &rec.Key, &rec.ContentType, &rec.Bytes, &rec.Width, &rec.Height, &rec.URL, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Kind = domain.UploadKind(k)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

var _ domain.UploadRepository = (*UploadRepositoryPG)(nil)
