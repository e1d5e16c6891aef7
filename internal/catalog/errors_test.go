package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsErrorPassesThroughTypedErrors(t *testing.T) {
	orig := ErrNotFound("Product not found")
	got := AsError(orig)
	if got != orig {
		t.Errorf("AsError rewrapped a typed error")
	}
	if got.Status != http.StatusNotFound || got.Code != "NOT_FOUND" {
		t.Errorf("got status=%d code=%q", got.Status, got.Code)
	}
}

func TestAsErrorUnwrapsChains(t *testing.T) {
	wrapped := fmt.Errorf("handle request: %w", ErrConflict("slug taken"))
	got := AsError(wrapped)
	if got.Status != http.StatusConflict {
		t.Errorf("wrapped conflict mapped to %d", got.Status)
	}
}

func TestAsErrorHidesInternalDetails(t *testing.T) {
	got := AsError(errors.New("pq: connection refused"))
	if got.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", got.Status)
	}
	if got.Message != "Internal server error" {
		t.Errorf("internal error message leaked: %q", got.Message)
	}
}

func TestErrValidationCarriesDetails(t *testing.T) {
	details := map[string]string{"rating": "must be between 1 and 5"}
	e := ErrValidation("Invalid review", details)
	if e.Status != http.StatusBadRequest || e.Code != "VALIDATION_ERROR" {
		t.Errorf("got status=%d code=%q", e.Status, e.Code)
	}
	if e.Details == nil {
		t.Error("details dropped")
	}
}
