// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestCategoriesList(t *testing.T) {
	env := newTestEnv(t)
	bearer, _ := env.register(t)

	slug := "hnd-cat-list-" + uuid.NewString()[:8]
	env.cleanupCategories(t, slug)

	rec := env.request(t, http.MethodPost, "/api/categories", bearer, map[string]string{
		"name": "Hnd Cat List " + slug[len(slug)-8:],
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.request(t, http.MethodGet, "/api/categories", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d, want 200", rec.Code)
	}

	var items []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	decodeBody(t, rec, &items)
	if len(items) == 0 {
		t.Fatal("list returned no categories")
	}
	for i := 1; i < len(items); i++ {
		if items[i].Name < items[i-1].Name {
			t.Errorf("list not sorted by name: %q before %q", items[i-1].Name, items[i].Name)
			break
		}
	}
}

func TestCategoriesCreate(t *testing.T) {
	env := newTestEnv(t)
	bearer, _ := env.register(t)

	t.Run("requires auth", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/categories", "", map[string]string{
			"name": "No Token",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("creates with slugified name", func(t *testing.T) {
		suffix := uuid.NewString()[:8]
		env.cleanupCategories(t, "hnd-cat-tech-news-"+suffix)

		rec := env.request(t, http.MethodPost, "/api/categories", bearer, map[string]string{
			"name": "Hnd Cat Tech News! " + suffix,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
		}

		var created struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Slug string `json:"slug"`
		}
		decodeBody(t, rec, &created)
		if created.Name != "Hnd Cat Tech News! "+suffix {
			t.Errorf("name: got %q, want original casing preserved", created.Name)
		}
		if created.Slug != "hnd-cat-tech-news-"+suffix {
			t.Errorf("slug: got %q, want %q", created.Slug, "hnd-cat-tech-news-"+suffix)
		}
	})

	t.Run("duplicate name rejected case-insensitively", func(t *testing.T) {
		suffix := uuid.NewString()[:8]
		env.cleanupCategories(t, "hnd-cat-dup-"+suffix)

		rec := env.request(t, http.MethodPost, "/api/categories", bearer, map[string]string{
			"name": "Hnd Cat Dup " + suffix,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("first create: got %d: %s", rec.Code, rec.Body.String())
		}

		rec = env.request(t, http.MethodPost, "/api/categories", bearer, map[string]string{
			"name": "HND CAT DUP " + suffix,
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("duplicate: got %d, want 400: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Error   string `json:"error"`
			Details struct {
				Slug string `json:"slug"`
			} `json:"details"`
		}
		decodeBody(t, rec, &resp)
		if resp.Error != "Category already exists" {
			t.Errorf("error: got %q", resp.Error)
		}
		if resp.Details.Slug != "hnd-cat-dup-"+suffix {
			t.Errorf("details should carry the existing category, got %s", rec.Body.String())
		}
	})

	t.Run("blank name rejected", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/categories", bearer, map[string]string{
			"name": "   ",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400: %s", rec.Code, rec.Body.String())
		}
	})
}
