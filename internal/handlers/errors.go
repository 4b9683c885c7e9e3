// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// errResponse is the generic error body: {"error": "...", "details": ...}.
type errResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func errBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// respondValidation maps a validation failure to a 400 with per-field
// messages: {"errors": {"email": "must be a valid email address", ...}}.
// Non-field errors degrade to the generic error body.
func respondValidation(w http.ResponseWriter, err error) {
	if fields, ok := err.(validation.Errors); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}
	writeJSON(w, http.StatusBadRequest, errBody(err.Error()))
}

// respondConflict reports a duplicate-key rejection, naming the offending
// field and the value that collided.
func respondConflict(w http.ResponseWriter, field, value string) {
	writeJSON(w, http.StatusBadRequest, errResponse{
		Error:   "Duplicate value",
		Details: map[string]string{field: value},
	})
}

// respondNotFound writes a 404 with the given message.
func respondNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, errBody(msg))
}

// respondStoreError logs an unexpected persistence failure and returns a
// 500 carrying a generic message plus the raw detail string for debugging.
func respondStoreError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeJSON(w, http.StatusInternalServerError, errResponse{
		Error:   msg,
		Details: err.Error(),
	})
}
