// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides a shared test environment for the endpoint
// tests: a migrated database, a fully wired router, and request helpers.
// Tests are skipped if PostgreSQL is not available.
package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/handlers"
	"inkpress/internal/router"
	"inkpress/internal/store"
)

const testSecret = "handlers-test-secret"

type testEnv struct {
	db     *sql.DB
	router http.Handler
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newTestEnv connects to the test database, migrates it, and wires the
// real stores, handlers, and router. The rate limiter is left out so the
// auth tests are not throttled.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "inkpress") +
		":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") +
		":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "inkpress") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)
	t.Cleanup(func() { db.Close() })

	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)

	secret := []byte(testSecret)
	r := router.New(
		handlers.NewAuth(users, secret),
		handlers.NewCategories(categories),
		handlers.NewPosts(posts, categories),
		secret,
		nil,
	)

	return &testEnv{db: db, router: r}
}

// request performs a JSON request against the router. body is marshalled
// when non-nil; bearer sets the Authorization header when non-empty.
func (e *testEnv) request(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded response body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// register creates a fresh user through the public endpoint and returns
// its bearer token and email. The user and its posts are removed on
// cleanup.
func (e *testEnv) register(t *testing.T) (bearer, email string) {
	t.Helper()

	email = "hnd-" + uuid.NewString()[:8] + "@test.local"
	rec := e.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Handler Tester",
		"email":    email,
		"password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}

	t.Cleanup(func() {
		e.db.Exec("DELETE FROM posts WHERE author_id IN (SELECT id FROM users WHERE email = $1)", email)
		e.db.Exec("DELETE FROM users WHERE email = $1", email)
	})
	return resp.Token, email
}

// cleanupCategories removes categories by slug on test cleanup.
func (e *testEnv) cleanupCategories(t *testing.T, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, slug := range slugs {
			e.db.Exec("UPDATE posts SET category_id = NULL WHERE category_id IN (SELECT id FROM categories WHERE slug = $1)", slug)
			e.db.Exec("DELETE FROM categories WHERE slug = $1", slug)
		}
	})
}
