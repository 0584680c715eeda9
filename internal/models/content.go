// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Content represents a purchasable content item in the marketplace.
// It is addressed publicly by its Path slug, which is unique across the
// whole catalog. Category membership lives in the content_categories
// junction table; the Categories field is populated by store queries.
type Content struct {
	ID          uuid.UUID `json:"id"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	FileURL     string    `json:"file_url"`
	CreatorID   uuid.UUID `json:"creator_id"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by store methods.
	Categories  []string `json:"categories,omitempty"`
	CreatorName string   `json:"creator_name,omitempty"`
}

// OwnedBy returns true if the given user is the content's creator.
func (c *Content) OwnedBy(userID uuid.UUID) bool {
	return c.CreatorID == userID
}
