// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a label grouping content items. Categories are created
// lazily the first time a name is used and removed once no content
// references them. Membership is derived from the content_categories
// junction table, never stored on the category row itself.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Virtual field populated by store queries.
	ContentCount int `json:"content_count"`
}
