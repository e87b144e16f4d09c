package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// DefaultCheckpointKeep is how many checkpoints a page retains.
const DefaultCheckpointKeep = 40

// Checkpoint is a labelled page snapshot kept beyond the in-memory history.
type Checkpoint struct {
	ID        string    `json:"id"`
	PageID    string    `json:"pageId"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckpointStore keeps a bounded list of snapshots per page.
type CheckpointStore struct {
	db   *DB
	keep int
	now  func() time.Time
}

func NewCheckpointStore(db *DB, keep int) *CheckpointStore {
	if keep <= 0 {
		keep = DefaultCheckpointKeep
	}
	return &CheckpointStore{db: db, keep: keep, now: time.Now}
}

// Push stores a snapshot of page and prunes the oldest beyond the keep count.
func (s *CheckpointStore) Push(ctx context.Context, label string, page *domain.Page) (*Checkpoint, error) {
	if page == nil || page.ID == "" {
		return nil, errors.New("push checkpoint: missing page id")
	}
	data, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("encode checkpoint: %w", err)
	}

	cp := &Checkpoint{
		ID:        uuid.New().String(),
		PageID:    page.ID,
		Label:     label,
		CreatedAt: s.now(),
	}
	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO checkpoints (id, page_id, label, snapshot_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		cp.ID, cp.PageID, cp.Label, string(data), cp.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert checkpoint: %w", err)
	}

	if err := s.pruneIfNeeded(ctx, page.ID); err != nil {
		return cp, fmt.Errorf("prune checkpoints: %w", err)
	}
	return cp, nil
}

// List returns a page's checkpoints, newest first.
func (s *CheckpointStore) List(ctx context.Context, pageID string) ([]Checkpoint, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, page_id, label, created_at FROM checkpoints
		 WHERE page_id = ? ORDER BY created_at DESC, rowid DESC`, pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		var cp Checkpoint
		var created int64
		if err := rows.Scan(&cp.ID, &cp.PageID, &cp.Label, &created); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		cp.CreatedAt = time.UnixMilli(created)
		out = append(out, cp)
	}
	return out, rows.Err()
}

// Load returns the page stored in a checkpoint.
func (s *CheckpointStore) Load(ctx context.Context, id string) (*domain.Page, error) {
	var data string
	err := s.db.conn.QueryRowContext(ctx, `SELECT snapshot_json FROM checkpoints WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checkpoint %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	var p domain.Page
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", id, err)
	}
	return &p, nil
}

// ClearPage removes every checkpoint of a page.
func (s *CheckpointStore) ClearPage(ctx context.Context, pageID string) error {
	_, err := s.db.conn.ExecContext(ctx, `DELETE FROM checkpoints WHERE page_id = ?`, pageID)
	return err
}

// pruneIfNeeded removes the oldest checkpoints once a page has more than keep.
func (s *CheckpointStore) pruneIfNeeded(ctx context.Context, pageID string) error {
	var count int
	if err := s.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM checkpoints WHERE page_id = ?`, pageID).Scan(&count); err != nil {
		return err
	}
	if count <= s.keep {
		return nil
	}

	// Collect ids first; the single connection cannot write with a cursor open.
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id FROM checkpoints WHERE page_id = ?
		 ORDER BY created_at ASC, rowid ASC LIMIT ?`, pageID, count-s.keep,
	)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()

	for _, id := range ids {
		if _, err := s.db.conn.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}
