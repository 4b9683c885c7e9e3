// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// constraintFields maps unique constraint names to the API field they guard.
var constraintFields = map[string]string{
	"posts_slug_key":      "slug",
	"categories_slug_key": "slug",
	"users_email_key":     "email",
}

// UniqueViolation reports whether err is a unique-index rejection and, if so,
// which field collided. This is the backstop for the read-then-write races in
// slug generation and category auto-creation: when two concurrent requests
// probe the same value, the loser surfaces here.
func UniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != uniqueViolation {
		return "", false
	}
	if f, known := constraintFields[pgErr.ConstraintName]; known {
		return f, true
	}
	return pgErr.ConstraintName, true
}
