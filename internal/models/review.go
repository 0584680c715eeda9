// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Review rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a reader's rating of a content item. Reviews are deleted
// en masse when their content is deleted.
type Review struct {
	ID        uuid.UUID `json:"id"`
	ContentID uuid.UUID `json:"content_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// Virtual field populated by store queries.
	AuthorName string `json:"author_name,omitempty"`
}

// ValidRating returns true if the rating is within the allowed bounds.
func (r *Review) ValidRating() bool {
	return r.Rating >= MinRating && r.Rating <= MaxRating
}
