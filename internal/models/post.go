// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a blog post. The slug is unique across all posts; the
// category reference is optional and, once resolved, always points at an
// existing Category row.
type Post struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Content    string     `json:"content"`
	Excerpt    *string    `json:"excerpt,omitempty"`
	CategoryID *uuid.UUID `json:"-"`
	AuthorID   uuid.UUID  `json:"-"`
	ViewCount  int        `json:"view_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods via joins.
	Author   *UserRef     `json:"author,omitempty"`
	Category *CategoryRef `json:"category,omitempty"`
}
