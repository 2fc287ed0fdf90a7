package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
)

// AnnotationRepository implements domain.AnnotationRepository on a SQLite
// key-value slot: one row per document holding the JSON-serialized
// AnnotationSet. Writes replace the whole payload, never patch it.
type AnnotationRepository struct {
	db *sql.DB
}

// NewAnnotationRepository creates a new AnnotationRepository
func NewAnnotationRepository(db *sql.DB) *AnnotationRepository {
	return &AnnotationRepository{db: db}
}

// Load retrieves the stored annotation set for a document. A missing row is
// not an error; it yields an empty set.
func (r *AnnotationRepository) Load(ctx context.Context, documentID string) (*domain.AnnotationSet, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM annotation_sets WHERE document_id = ?`, documentID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewAnnotationSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("while reading annotation set for document %q: %w", documentID, err)
	}

	var set domain.AnnotationSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return nil, fmt.Errorf("while decoding annotation set for document %q: %w", documentID, err)
	}
	return &set, nil
}

// ReplaceAll serializes and writes the full set, overwriting any prior value.
func (r *AnnotationRepository) ReplaceAll(ctx context.Context, documentID string, set *domain.AnnotationSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("while encoding annotation set for document %q: %w", documentID, err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO annotation_sets (document_id, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(document_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
`, documentID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("while writing annotation set for document %q: %w", documentID, err)
	}
	return nil
}

// Append loads the current set, appends record and writes the result back.
// Not transactional against concurrent writers; the viewer is a single-user,
// single-session context.
func (r *AnnotationRepository) Append(ctx context.Context, documentID string, record domain.Record) error {
	set, err := r.Load(ctx, documentID)
	if err != nil {
		return err
	}
	record.AppendTo(set)
	return r.ReplaceAll(ctx, documentID, set)
}

// Clear removes the stored set for a document.
func (r *AnnotationRepository) Clear(ctx context.Context, documentID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM annotation_sets WHERE document_id = ?`, documentID)
	if err != nil {
		return fmt.Errorf("while clearing annotation set for document %q: %w", documentID, err)
	}
	return nil
}

// Verify that AnnotationRepository implements domain.AnnotationRepository
var _ domain.AnnotationRepository = (*AnnotationRepository)(nil)
