// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/slug"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name ascending.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by its exact slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, categorySlug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByName retrieves a category by case-insensitive exact name match.
// Returns nil if not found.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE LOWER(name) = LOWER($1)`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// FindDuplicate returns an existing category whose slug matches or whose name
// matches case-insensitively, or nil when neither does. Both the creation
// endpoint and the resolver's auto-create path use this probe, so the
// "no duplicate categories" invariant has a single source of truth.
func (s *CategoryStore) FindDuplicate(name, categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`
		SELECT `+categoryColumns+` FROM categories
		WHERE slug = $1 OR LOWER(name) = LOWER($2)
		LIMIT 1
	`, categorySlug, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find duplicate category: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(name, categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		name, categorySlug,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Slugify derives a category slug from a display name, substituting a
// fallback when the name normalizes to nothing.
func Slugify(name string) string {
	s := slug.Generate(name)
	if s == "" {
		s = "category"
	}
	return s
}

// Resolve maps a free-form category reference to a category ID. The input
// may be a store-assigned UUID, a slug, or a display name; lookups are tried
// in that order. An unmatched input is treated as a new category name and a
// category is created for it. Empty input resolves to nil ("uncategorized").
//
// The duplicate probe and the slug unique index mean a concurrent creator of
// the same category loses with a unique-violation error rather than leaving
// a silent duplicate behind.
func (s *CategoryStore) Resolve(input string) (*uuid.UUID, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	// Id-shaped input: look up by primary key, but fall through to slug and
	// name matching when nothing is found.
	if id, err := uuid.Parse(input); err == nil {
		c, err := s.FindByID(id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return &c.ID, nil
		}
	}

	c, err := s.FindBySlug(strings.ToLower(input))
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = s.FindByName(input)
		if err != nil {
			return nil, err
		}
	}
	if c != nil {
		return &c.ID, nil
	}

	// Auto-create path. Run the same duplicate probe as the creation
	// endpoint so an input whose derived slug collides with an existing
	// category resolves to that category instead of duplicating it.
	derived := Slugify(input)
	if dup, err := s.FindDuplicate(input, derived); err != nil {
		return nil, err
	} else if dup != nil {
		return &dup.ID, nil
	}

	created, err := s.Create(input, derived)
	if err != nil {
		return nil, err
	}
	return &created.ID, nil
}
