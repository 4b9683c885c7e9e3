// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// Pagination bounds for the list endpoint.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Posts groups the post lifecycle handlers.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore) *Posts {
	return &Posts{posts: posts, categories: categories}
}

// CreatePostRequest is the body for POST /api/posts. Category accepts an
// id, a slug, or a display name; Slug is optional and derived from the
// title when absent.
type CreatePostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Excerpt  *string `json:"excerpt"`
	Category string  `json:"category"`
	Slug     string  `json:"slug"`
}

// Validate checks the create fields.
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title is required")),
		validation.Field(&r.Content, validation.Required.Error("Content is required")),
	)
}

// UpdatePostRequest is the body for PUT /api/posts/{idOrSlug}. All fields
// are optional; absent fields are left untouched.
type UpdatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Excerpt  *string `json:"excerpt"`
	Category *string `json:"category"`
	Slug     *string `json:"slug"`
}

// Validate checks that present fields are not blank.
func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("Title cannot be empty")),
		validation.Field(&r.Content, validation.NilOrNotEmpty.Error("Content cannot be empty")),
	)
}

// listMeta echoes the pagination parameters alongside the total match count.
type listMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// listResponse is the envelope for GET /api/posts.
type listResponse struct {
	Data []models.Post `json:"data"`
	Meta listMeta      `json:"meta"`
}

// List returns a page of posts, newest first, optionally filtered by a
// case-insensitive substring match against title, content, or excerpt.
// GET /api/posts?page&limit&q
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	page := intParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := intParam(r, "limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := h.posts.List(store.ListOptions{
		Page:  page,
		Limit: limit,
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	})
	if err != nil {
		respondStoreError(w, "Failed to fetch posts", err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data: items,
		Meta: listMeta{Total: total, Page: page, Limit: limit},
	})
}

// Get returns a single post by id or slug and bumps its view counter as a
// detached best-effort side effect; the response carries the pre-increment
// count and an increment failure never surfaces to the caller.
// GET /api/posts/{idOrSlug}
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.findPost(chi.URLParam(r, "idOrSlug"))
	if err != nil {
		respondStoreError(w, "Failed to fetch post", err)
		return
	}
	if post == nil {
		respondNotFound(w, "Post not found")
		return
	}

	go func(id uuid.UUID) {
		if err := h.posts.IncrementViews(id); err != nil {
			slog.Error("failed to increment view count", "post_id", id, "error", err)
		}
	}(post.ID)

	writeJSON(w, http.StatusOK, post)
}

// Create persists a new post. A supplied category reference is resolved
// (or auto-created); the slug is derived from the title unless supplied,
// and a supplied slug is normalized the same way.
// POST /api/posts
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)

	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, errBody("Authentication required"))
		return
	}
	authorID, err := claims.UserID()
	if err != nil {
		respondStoreError(w, "Failed to create post", err)
		return
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		AuthorID: authorID,
	}

	if req.Category != "" {
		categoryID, err := h.categories.Resolve(req.Category)
		if err != nil {
			if field, ok := store.UniqueViolation(err); ok {
				respondConflict(w, field, req.Category)
				return
			}
			respondStoreError(w, "Failed to create post", err)
			return
		}
		post.CategoryID = categoryID
	}

	post.Slug, err = resolveSlug(req.Slug, req.Title, h.posts.SlugExists)
	if err != nil {
		respondStoreError(w, "Failed to create post", err)
		return
	}

	created, err := h.posts.Create(post)
	if err != nil {
		if field, ok := store.UniqueViolation(err); ok {
			respondConflict(w, field, post.Slug)
			return
		}
		respondStoreError(w, "Failed to create post", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to a post found by id or slug. Category
// resolution and slug regeneration follow the same rules as Create, but
// only for fields present in the request.
// PUT /api/posts/{idOrSlug}
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	post, err := h.findPost(chi.URLParam(r, "idOrSlug"))
	if err != nil {
		respondStoreError(w, "Failed to update post", err)
		return
	}
	if post == nil {
		respondNotFound(w, "Post not found")
		return
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = req.Excerpt
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		categoryID, err := h.categories.Resolve(*req.Category)
		if err != nil {
			if field, ok := store.UniqueViolation(err); ok {
				respondConflict(w, field, *req.Category)
				return
			}
			respondStoreError(w, "Failed to update post", err)
			return
		}
		post.CategoryID = categoryID
	}

	// Regenerate the slug when the title changed without an explicit slug;
	// normalize an explicit slug the same way as on create. The post's own
	// row is excluded from the existence probe so an unchanged title keeps
	// its slug instead of picking up a spurious suffix.
	exists := func(s string) (bool, error) {
		return h.posts.SlugExistsExcept(s, post.ID)
	}
	if req.Slug == nil && req.Title != nil {
		post.Slug, err = resolveSlug("", post.Title, exists)
	} else if req.Slug != nil {
		post.Slug, err = resolveSlug(*req.Slug, post.Title, exists)
	}
	if err != nil {
		respondStoreError(w, "Failed to update post", err)
		return
	}

	updated, err := h.posts.Update(post)
	if err != nil {
		if field, ok := store.UniqueViolation(err); ok {
			respondConflict(w, field, post.Slug)
			return
		}
		respondStoreError(w, "Failed to update post", err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a post by id.
// DELETE /api/posts/{id}
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w, "Post not found")
		return
	}

	deleted, err := h.posts.Delete(id)
	if err != nil {
		respondStoreError(w, "Failed to delete post", err)
		return
	}
	if !deleted {
		respondNotFound(w, "Post not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted",
		"id":      id.String(),
	})
}

// findPost looks a post up by id when the reference parses as a UUID,
// otherwise by slug. Returns nil without error when nothing matches.
func (h *Posts) findPost(ref string) (*models.Post, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return h.posts.FindByID(id)
	}
	return h.posts.FindBySlug(ref)
}

// resolveSlug normalizes an explicitly supplied slug, or derives a unique
// one from the title when the supplied value is absent or normalizes to
// nothing. An explicit slug is not re-checked for uniqueness; the posts
// unique index rejects a collision at insert time.
func resolveSlug(supplied, title string, exists slug.ExistsFunc) (string, error) {
	if supplied != "" {
		if normalized := slug.Generate(supplied); normalized != "" {
			return normalized, nil
		}
	}
	return slug.Unique(slug.Generate(title), exists)
}

// intParam reads an integer query parameter, returning fallback when the
// parameter is absent or malformed.
func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
