package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pagebuilder/internal/domain"
)

// DocumentStore persists whole pages and sites as JSON documents. It
// satisfies autosave.Sink.
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// PageRow is the listing view of a stored page.
type PageRow struct {
	domain.PageSummary
	BrickCount int       `json:"brickCount"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SavePage inserts or replaces the page document.
func (s *DocumentStore) SavePage(ctx context.Context, p *domain.Page) error {
	if p == nil || p.ID == "" {
		return errors.New("save page: missing id")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO pages (id, label, path, document_json, brick_count, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET label = excluded.label, path = excluded.path,
		 document_json = excluded.document_json, brick_count = excluded.brick_count, updated_at = excluded.updated_at`,
		p.ID, p.Label, p.Path, string(data), domain.CountBricks(p.Sections), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	return nil
}

// LoadPage returns the stored page, or an error wrapping domain.ErrNotFound.
func (s *DocumentStore) LoadPage(ctx context.Context, id string) (*domain.Page, error) {
	var data string
	err := s.db.conn.QueryRowContext(ctx, `SELECT document_json FROM pages WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load page %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	var p domain.Page
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode page %s: %w", id, err)
	}
	return &p, nil
}

// ListPages returns every stored page, most recently saved first.
func (s *DocumentStore) ListPages(ctx context.Context) ([]PageRow, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, label, path, brick_count, updated_at FROM pages ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []PageRow
	for rows.Next() {
		var r PageRow
		var updated int64
		if err := rows.Scan(&r.ID, &r.Label, &r.Path, &r.BrickCount, &updated); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		r.UpdatedAt = time.UnixMilli(updated)
		pages = append(pages, r)
	}
	return pages, rows.Err()
}

func (s *DocumentStore) DeletePage(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	return err
}

// SaveSite inserts or replaces the site document.
func (s *DocumentStore) SaveSite(ctx context.Context, st *domain.Site) error {
	if st == nil || st.ID == "" {
		return errors.New("save site: missing id")
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode site: %w", err)
	}
	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO sites (id, label, hostname, document_json, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET label = excluded.label, hostname = excluded.hostname,
		 document_json = excluded.document_json, updated_at = excluded.updated_at`,
		st.ID, st.Label, st.Hostname, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save site: %w", err)
	}
	return nil
}

// LoadSite returns the stored site, or an error wrapping domain.ErrNotFound.
func (s *DocumentStore) LoadSite(ctx context.Context, id string) (*domain.Site, error) {
	var data string
	err := s.db.conn.QueryRowContext(ctx, `SELECT document_json FROM sites WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load site %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load site: %w", err)
	}
	var st domain.Site
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decode site %s: %w", id, err)
	}
	return &st, nil
}
