// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON endpoint handlers for the Inkpress
// API: authentication, categories, and the post lifecycle.
package handlers

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"inkpress/internal/models"
	"inkpress/internal/store"
	"inkpress/internal/token"
)

// Auth groups the registration and login handlers.
type Auth struct {
	users  *store.UserStore
	secret []byte
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, secret []byte) *Auth {
	return &Auth{users: users, secret: secret}
}

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration fields.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("Name is required")),
		validation.Field(&r.Email,
			validation.Required.Error("Valid email is required"),
			is.Email.Error("Valid email is required"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password must be at least 6 characters"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		),
	)
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login fields.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Valid email is required"),
			is.Email.Error("Valid email is required"),
		),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

// tokenResponse is the success body for both auth endpoints.
type tokenResponse struct {
	Token string          `json:"token"`
	User  *models.UserRef `json:"user"`
}

// Register creates a new user and issues a bearer token.
// POST /api/auth/register
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	existing, err := a.users.FindByEmail(req.Email)
	if err != nil {
		respondStoreError(w, "Failed to register", err)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusBadRequest, errBody("Email already registered"))
		return
	}

	user, err := a.users.Create(req.Name, req.Email, req.Password)
	if err != nil {
		// A concurrent registration can win the race between the probe and
		// the insert; the unique index on email reports it here.
		if _, ok := store.UniqueViolation(err); ok {
			writeJSON(w, http.StatusBadRequest, errBody("Email already registered"))
			return
		}
		respondStoreError(w, "Failed to register", err)
		return
	}

	signed, err := token.Issue(a.secret, user.ID, user.Email)
	if err != nil {
		respondStoreError(w, "Failed to register", err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: signed, User: user.Ref()})
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password produce the same generic error so callers cannot probe
// which accounts exist.
// POST /api/auth/login
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		respondValidation(w, err)
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		respondStoreError(w, "Failed to login", err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeJSON(w, http.StatusUnauthorized, errBody("Invalid credentials"))
		return
	}

	signed, err := token.Issue(a.secret, user.ID, user.Email)
	if err != nil {
		respondStoreError(w, "Failed to login", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: signed, User: user.Ref()})
}
