// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"marketpress/internal/models"
)

// ReviewStore manages reader reviews of content items. Cascading deletion
// of reviews when content is deleted happens inside the content lifecycle
// transaction, not here.
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore returns a new ReviewStore.
func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// Create inserts a new review for the given content.
func (s *ReviewStore) Create(ctx context.Context, contentID, authorID uuid.UUID, rating int, body string) (*models.Review, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rv := &models.Review{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reviews (content_id, author_id, rating, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, content_id, author_id, rating, body, created_at
	`, contentID, authorID, rating, body).Scan(
		&rv.ID, &rv.ContentID, &rv.AuthorID, &rv.Rating, &rv.Body, &rv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return rv, nil
}

// ListByContent returns all reviews of a content item, newest first, with
// author display names populated.
func (s *ReviewStore) ListByContent(ctx context.Context, contentID uuid.UUID) ([]models.Review, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.content_id, r.author_id, r.rating, r.body, r.created_at,
		       u.display_name
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.content_id = $1
		ORDER BY r.created_at DESC
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var items []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(
			&rv.ID, &rv.ContentID, &rv.AuthorID, &rv.Rating, &rv.Body,
			&rv.CreatedAt, &rv.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, rv)
	}
	return items, rows.Err()
}

// CountByContent returns the number of reviews a content item has.
func (s *ReviewStore) CountByContent(ctx context.Context, contentID uuid.UUID) (int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reviews WHERE content_id = $1
	`, contentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}
