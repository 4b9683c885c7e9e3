// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Categories groups the category endpoint handlers.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// CreateCategoryRequest is the body for POST /api/categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// Validate checks the category fields.
func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("Name is required")),
	)
}

// List returns all categories sorted by name ascending.
// GET /api/categories
func (c *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.categories.List()
	if err != nil {
		respondStoreError(w, "Failed to fetch categories", err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create adds a new category, rejecting duplicates by slug or
// case-insensitive name.
// POST /api/categories
func (c *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	derived := store.Slugify(req.Name)
	existing, err := c.categories.FindDuplicate(req.Name, derived)
	if err != nil {
		respondStoreError(w, "Failed to create category", err)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{
			Error:   "Category already exists",
			Details: existing,
		})
		return
	}

	created, err := c.categories.Create(req.Name, derived)
	if err != nil {
		// Concurrent creation of the same category loses against the slug
		// unique index rather than persisting a duplicate.
		if field, ok := store.UniqueViolation(err); ok {
			respondConflict(w, field, derived)
			return
		}
		respondStoreError(w, "Failed to create category", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
