// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP surface of the catalog API. Every
// response uses the same JSON envelope; handlers stay thin and delegate
// business rules to the catalog service.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"bankcat/internal/catalog"
)

// maxBodyBytes caps request bodies; catalog payloads are small.
const maxBodyBytes = 1 << 20

// Meta carries pagination metadata on list responses.
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// envelope is the uniform response shape.
type envelope struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respond writes a successful data response.
func respond(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Status: status, Data: data})
}

// respondList writes a successful list response with pagination meta.
func respondList(w http.ResponseWriter, data any, meta Meta) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Status: http.StatusOK, Data: data, Meta: &meta})
}

// respondMessage writes a successful response with a message and no data.
func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Status: status, Message: message})
}

// respondError maps any error to the error envelope. Internal errors are
// logged and masked; expected failures log at warn.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := catalog.AsError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.Warn("request rejected",
			"method", r.Method, "path", r.URL.Path,
			"status", apiErr.Status, "code", apiErr.Code)
	}

	writeJSON(w, apiErr.Status, envelope{
		Success: false,
		Status:  apiErr.Status,
		Message: apiErr.Message,
		Error:   apiErr,
	})
}

// decodeBody reads a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return catalog.ErrValidation("Could not read request body", nil)
	}
	if len(body) == 0 {
		return catalog.ErrValidation("Request body is required", nil)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			return catalog.ErrValidation("Request body is not valid JSON", nil)
		case errors.As(err, &typeErr):
			return catalog.ErrValidation("Invalid value for field '"+typeErr.Field+"'", nil)
		default:
			return catalog.ErrValidation("Could not decode request body", nil)
		}
	}
	return nil
}
