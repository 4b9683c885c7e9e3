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
)

// PostStore handles all post-related database operations. Query methods
// return posts with author and category references expanded via joins.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.category_id,
	       p.author_id, p.view_count, p.created_at, p.updated_at,
	       u.name, u.email,
	       c.name, c.slug
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

// scanPost scans a joined row into a Post with expanded references.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p        models.Post
		catID    uuid.NullUUID
		catName  sql.NullString
		catSlug  sql.NullString
		authName string
		authMail string
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &catID,
		&p.AuthorID, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
		&authName, &authMail,
		&catName, &catSlug,
	)
	if err != nil {
		return nil, err
	}

	p.Author = &models.UserRef{ID: p.AuthorID, Name: authName, Email: authMail}
	if catID.Valid {
		id := catID.UUID
		p.CategoryID = &id
		p.Category = &models.CategoryRef{ID: id, Name: catName.String, Slug: catSlug.String}
	}
	return &p, nil
}

// ListOptions controls pagination and search for List.
type ListOptions struct {
	Page  int    // 1-based page number
	Limit int    // page size
	Query string // optional case-insensitive substring filter
}

// List returns a page of posts sorted by creation time descending, along
// with the total number of posts matching the filter. When Query is set,
// a post matches if its title, content, or excerpt contains the query
// case-insensitively.
func (s *PostStore) List(opts ListOptions) ([]models.Post, int, error) {
	where := ""
	args := []any{}
	if opts.Query != "" {
		pattern := "%" + escapeLike(opts.Query) + "%"
		where = ` WHERE p.title ILIKE $1 OR p.content ILIKE $1 OR p.excerpt ILIKE $1`
		args = append(args, pattern)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	offset := (opts.Page - 1) * opts.Limit
	query := postSelect + where + fmt.Sprintf(
		` ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2,
	)
	args = append(args, opts.Limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// SlugExists reports whether any post already uses the given slug.
func (s *PostStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// SlugExistsExcept reports whether a post other than the one with the
// given id uses the slug. Update paths probe with this so a post does not
// collide with itself.
func (s *PostStore) SlugExistsExcept(slug string, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`,
		slug, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists except: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it re-read with author and category
// expanded. Unique-index violations are returned unwrapped enough for
// UniqueViolation to classify them.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO posts (title, slug, content, excerpt, category_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.CategoryID, p.AuthorID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(id)
}

// Update persists the mutable fields of a post and returns it re-read with
// references expanded.
func (s *PostStore) Update(p *models.Post) (*models.Post, error) {
	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			category_id = $5, updated_at = NOW()
		WHERE id = $6
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.CategoryID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.FindByID(p.ID)
}

// Delete removes a post by ID. Returns false when no row matched.
func (s *PostStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows: %w", err)
	}
	return n > 0, nil
}

// IncrementViews bumps a post's view counter by one with an atomic
// store-level update, so concurrent reads never lose counts.
func (s *PostStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
