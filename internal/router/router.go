// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Inkpress API. Read endpoints are public; mutating endpoints require a
// bearer token.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil, in which case the auth
// endpoints run unthrottled.
func New(auth *handlers.Auth, categories *handlers.Categories, posts *handlers.Posts, secret []byte, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Rate limited to slow down credential stuffing.
		r.Route("/auth", func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Limit)
			}
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(secret))
				r.Post("/", categories.Create)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/{idOrSlug}", posts.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(secret))
				r.Post("/", posts.Create)
				r.Put("/{idOrSlug}", posts.Update)
				r.Delete("/{id}", posts.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
