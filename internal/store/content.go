// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketpress/internal/models"
)

// queryTimeout bounds every store operation. All store methods derive a
// timeout context before touching the pool, so a stuck database call can
// never hold a request open indefinitely.
const queryTimeout = 5 * time.Second

// opCtx derives a bounded context for a single store operation.
func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

const contentColumns = `id, path, title, description, price, file_url, creator_id, views, created_at, updated_at`

// ContentStore is the content lifecycle manager. Every mutation that spans
// more than one table (create-with-category-link, cascading delete) runs
// inside a single transaction, so concurrent readers never observe a
// half-applied lifecycle step.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// CreateParams carries the caller-supplied fields for a new content item.
type CreateParams struct {
	Path         string
	Title        string
	Description  string
	Price        float64
	FileURL      string
	CategoryName string
}

// scanContent scans a content row into a Content struct.
func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.Path, &c.Title, &c.Description, &c.Price,
		&c.FileURL, &c.CreatorID, &c.Views, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new content item owned by creatorID and links it to the
// named category, creating the category on first use. Both the new-category
// and existing-category branches append to the membership set via the same
// junction insert. The whole sequence is one transaction: a failure at any
// step leaves no partial writes behind.
func (s *ContentStore) Create(ctx context.Context, p CreateParams, creatorID uuid.UUID) (*models.Content, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create content: begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO content (path, title, description, price, file_url, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contentColumns,
		p.Path, p.Title, p.Description, p.Price, p.FileURL, creatorID,
	)
	content, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	// Lazily create the category. The no-op update makes RETURNING yield
	// the id whether the row was just inserted or already existed.
	var categoryID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, p.CategoryName).Scan(&categoryID)
	if err != nil {
		return nil, fmt.Errorf("create content: upsert category: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO content_categories (content_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, content.ID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("create content: link category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create content: commit: %w", err)
	}

	content.Categories = []string{p.CategoryName}
	return content, nil
}

// List returns all content items, newest first, with category names populated.
func (s *ContentStore) List(ctx context.Context) ([]models.Content, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contentColumns+` FROM content ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Categories = names[items[i].ID]
	}
	return items, nil
}

// categoryNames loads category names for every content item in one query.
func (s *ContentStore) categoryNames(ctx context.Context) (map[uuid.UUID][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cc.content_id, cat.name
		FROM content_categories cc
		JOIN categories cat ON cat.id = cc.category_id
		ORDER BY cat.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list category links: %w", err)
	}
	defer rows.Close()

	names := make(map[uuid.UUID][]string)
	for rows.Next() {
		var contentID uuid.UUID
		var name string
		if err := rows.Scan(&contentID, &name); err != nil {
			return nil, fmt.Errorf("scan category link: %w", err)
		}
		names[contentID] = append(names[contentID], name)
	}
	return names, rows.Err()
}

// GetByPath retrieves a content item by its path for a detail view,
// incrementing the view counter exactly once. The increment is folded into
// the lookup statement so concurrent reads can never lose an update.
// The creator's display name and category names are denormalized into the
// result. Returns ErrNotFound when no content matches.
func (s *ContentStore) GetByPath(ctx context.Context, path string) (*models.Content, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		UPDATE content SET views = views + 1 WHERE path = $1
		RETURNING `+contentColumns,
		path,
	)
	content, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content by path: %w", err)
	}

	if err := s.populate(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// FindByPath retrieves a content item by its path without side effects.
// Returns ErrNotFound when no content matches.
func (s *ContentStore) FindByPath(ctx context.Context, path string) (*models.Content, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+` FROM content WHERE path = $1
	`, path)
	content, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find content by path: %w", err)
	}

	if err := s.populate(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// GetForEdit retrieves a content item for editing, with no view-count side
// effect. Only the content's creator may fetch it; anyone else gets
// ErrForbidden.
func (s *ContentStore) GetForEdit(ctx context.Context, path string, requesterID uuid.UUID) (*models.Content, error) {
	content, err := s.FindByPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if !content.OwnedBy(requesterID) {
		return nil, ErrForbidden
	}
	return content, nil
}

// populate fills the virtual creator-name and category-name fields.
func (s *ContentStore) populate(ctx context.Context, c *models.Content) error {
	err := s.db.QueryRowContext(ctx, `
		SELECT display_name FROM users WHERE id = $1
	`, c.CreatorID).Scan(&c.CreatorName)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("populate creator: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cat.name
		FROM content_categories cc
		JOIN categories cat ON cat.id = cc.category_id
		WHERE cc.content_id = $1
		ORDER BY cat.name
	`, c.ID)
	if err != nil {
		return fmt.Errorf("populate categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan category name: %w", err)
		}
		c.Categories = append(c.Categories, name)
	}
	return rows.Err()
}

// UpdateParams carries the replacement fields for an edit.
type UpdateParams struct {
	Path        string
	Title       string
	Description string
	Price       float64
	FileURL     string
}

// Update replaces the editable fields of the content at path and refreshes
// its updated timestamp. Category and creator links are never touched.
// Returns ErrNotFound when no content matches and ErrForbidden when the
// requester is not the creator.
func (s *ContentStore) Update(ctx context.Context, path string, p UpdateParams, requesterID uuid.UUID) (*models.Content, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update content: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the row so a concurrent delete cannot interleave with the edit.
	var id, creatorID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT id, creator_id FROM content WHERE path = $1 FOR UPDATE
	`, path).Scan(&id, &creatorID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update content: lookup: %w", err)
	}
	if creatorID != requesterID {
		return nil, ErrForbidden
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE content SET
			path = $1, title = $2, description = $3, price = $4,
			file_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+contentColumns,
		p.Path, p.Title, p.Description, p.Price, p.FileURL, id,
	)
	content, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update content: commit: %w", err)
	}

	if err := s.populate(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// Delete removes the content at path and cascades to its dependents:
// reviews are deleted, category links are removed, and any category whose
// membership becomes empty is deleted. The target is located and locked
// first; if no content matches, the whole operation fails with ErrNotFound
// before any dependent deletion runs. Only the creator may delete.
func (s *ContentStore) Delete(ctx context.Context, path string, requesterID uuid.UUID) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete content: begin tx: %w", err)
	}
	defer tx.Rollback()

	var id, creatorID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT id, creator_id FROM content WHERE path = $1 FOR UPDATE
	`, path).Scan(&id, &creatorID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete content: lookup: %w", err)
	}
	if creatorID != requesterID {
		return ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE content_id = $1`, id); err != nil {
		return fmt.Errorf("delete content: reviews: %w", err)
	}

	// Collect the categories this content belonged to while unlinking,
	// so empty ones can be garbage-collected below.
	rows, err := tx.QueryContext(ctx, `
		DELETE FROM content_categories WHERE content_id = $1
		RETURNING category_id
	`, id)
	if err != nil {
		return fmt.Errorf("delete content: unlink categories: %w", err)
	}
	var categoryIDs []uuid.UUID
	for rows.Next() {
		var catID uuid.UUID
		if err := rows.Scan(&catID); err != nil {
			rows.Close()
			return fmt.Errorf("delete content: scan category id: %w", err)
		}
		categoryIDs = append(categoryIDs, catID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM content WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}

	// A category with no remaining content must not persist.
	for _, catID := range categoryIDs {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM categories
			WHERE id = $1
			  AND NOT EXISTS (SELECT 1 FROM content_categories WHERE category_id = $1)
		`, catID)
		if err != nil {
			return fmt.Errorf("delete content: category gc: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete content: commit: %w", err)
	}
	return nil
}
