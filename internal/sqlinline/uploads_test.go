package sqlinline

import (
	"testing"

	"giyinme/internal/infra"
)

func TestQueriesCarryUniqueMarkers(t *testing.T) {
	queries := map[string]string{
		"QCreateUploadsTable":     QCreateUploadsTable,
		"QCreateUploadsKindIndex": QCreateUploadsKindIndex,
		"QInsertUpload":           QInsertUpload,
		"QListUploads":            QListUploads,
	}
	seen := make(map[string]string, len(queries))
	for name, q := range queries {
		marker, body, err := infra.ExtractMarker(q)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if body == "" {
			t.Fatalf("%s: empty body", name)
		}
		if prev, ok := seen[marker]; ok {
			t.Fatalf("%s reuses marker %s from %s", name, marker, prev)
		}
		seen[marker] = name
	}
}
