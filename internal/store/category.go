// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"marketpress/internal/models"
)

// CategoryStore manages categories in the database. Categories are created
// and garbage-collected by the content lifecycle; this store only reads.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories ordered by name, with content counts derived
// from the junction table.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.created_at, COUNT(cc.content_id) AS content_count
		FROM categories c
		LEFT JOIN content_categories cc ON cc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.ContentCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByName retrieves a category by its exact name. Returns nil if not found.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	c := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM categories WHERE name = $1
	`, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// ContentPaths returns the paths of all content linked to the named
// category. Membership is derived from the junction table, so it is always
// consistent with each content item's own category set.
func (s *CategoryStore) ContentPaths(ctx context.Context, name string) ([]string, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.path
		FROM content c
		JOIN content_categories cc ON cc.content_id = c.id
		JOIN categories cat ON cat.id = cc.category_id
		WHERE cat.name = $1
		ORDER BY c.created_at DESC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("category content paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan content path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
