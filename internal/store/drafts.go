package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/newskoo/recreator/internal/recreation"
	"github.com/newskoo/recreator/internal/similarity"
)

var ErrNotFound = errors.New("draft not found")

// Draft is a persisted recreation awaiting editorial review.
type Draft struct {
	ID            uuid.UUID         `json:"id"`
	InspirationID string            `json:"inspiration_id,omitempty"`
	Concept       string            `json:"concept"`
	Style         string            `json:"style"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Similarity    similarity.Result `json:"similarity"`
	IsFairUse     bool              `json:"is_fair_use"`
	Threshold     float64           `json:"threshold"`
	Revision      int               `json:"revision"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// DraftFromVersion builds a draft from a generated version, reusing the
// version's ID.
func DraftFromVersion(inspirationID, concept string, v recreation.GeneratedVersion) Draft {
	return Draft{
		ID:            v.ID,
		InspirationID: inspirationID,
		Concept:       concept,
		Style:         string(v.Style),
		Title:         v.Title,
		Content:       v.Content,
		Similarity:    v.Similarity,
		IsFairUse:     v.IsFairUse,
		Threshold:     v.Threshold,
		Revision:      1,
	}
}

// SaveDraft inserts d, assigning an ID when it has none.
func (s *Store) SaveDraft(ctx context.Context, d Draft) (uuid.UUID, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	breakdown, err := json.Marshal(d.Similarity)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal similarity: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO recreation_drafts (id, inspiration_id, concept, style, title, content, similarity, breakdown, is_fair_use, threshold)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.InspirationID, d.Concept, d.Style, d.Title, d.Content,
		d.Similarity.Overall, breakdown, d.IsFairUse, d.Threshold,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert draft: %w", err)
	}
	return d.ID, nil
}

const draftColumns = `id, COALESCE(inspiration_id, ''), concept, style, title, content, breakdown, is_fair_use, threshold, revision, created_at, updated_at`

// GetDraft returns the draft with the given ID or ErrNotFound.
func (s *Store) GetDraft(ctx context.Context, id uuid.UUID) (Draft, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM recreation_drafts WHERE id = $1`, id)
	d, err := scanDraft(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

// ListDraftsByInspiration returns the drafts generated from one inspiration,
// oldest first.
func (s *Store) ListDraftsByInspiration(ctx context.Context, inspirationID string) ([]Draft, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+draftColumns+` FROM recreation_drafts
		WHERE inspiration_id = $1
		ORDER BY created_at`, inspirationID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ReplaceContent stores a regenerated version of an existing draft and bumps
// its revision.
func (s *Store) ReplaceContent(ctx context.Context, id uuid.UUID, v recreation.GeneratedVersion) (Draft, error) {
	breakdown, err := json.Marshal(v.Similarity)
	if err != nil {
		return Draft{}, fmt.Errorf("marshal similarity: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE recreation_drafts
		SET style = $2, title = $3, content = $4, similarity = $5, breakdown = $6,
		    is_fair_use = $7, threshold = $8, revision = revision + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+draftColumns,
		id, string(v.Style), v.Title, v.Content, v.Similarity.Overall, breakdown, v.IsFairUse, v.Threshold,
	)
	d, err := scanDraft(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("update draft: %w", err)
	}
	return d, nil
}

func scanDraft(row pgx.Row) (Draft, error) {
	var (
		d         Draft
		breakdown []byte
	)
	err := row.Scan(&d.ID, &d.InspirationID, &d.Concept, &d.Style, &d.Title, &d.Content,
		&breakdown, &d.IsFairUse, &d.Threshold, &d.Revision, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Draft{}, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &d.Similarity); err != nil {
			return Draft{}, fmt.Errorf("decode similarity: %w", err)
		}
	}
	return d, nil
}
