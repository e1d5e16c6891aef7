// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bankcat/internal/catalog"
	"bankcat/internal/models"
	"bankcat/internal/storage"
	"bankcat/internal/store"
)

// maxLogoSize is the maximum allowed logo upload size (2 MB).
const maxLogoSize = 2 << 20

// allowedLogoTypes are the content types accepted for institution logos.
var allowedLogoTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Institutions groups the handlers for institutions and institution
// types. The storage client may be nil; logo uploads then return 503.
type Institutions struct {
	svc     *catalog.Service
	storage *storage.Client
}

// NewInstitutions creates a new Institutions handler group.
func NewInstitutions(svc *catalog.Service, storageClient *storage.Client) *Institutions {
	return &Institutions{svc: svc, storage: storageClient}
}

// ListTypes returns all institution types.
// GET /api/institution-types
func (h *Institutions) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.ListInstitutionTypes()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, types)
}

// GetTypeByCode returns one institution type by code.
// GET /api/institution-types/code/{code}
func (h *Institutions) GetTypeByCode(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.GetInstitutionTypeByCode(chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, it)
}

// CreateType inserts an institution type.
// POST /api/institution-types
func (h *Institutions) CreateType(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	it, err := h.svc.CreateInstitutionType(strings.TrimSpace(body.Code), strings.TrimSpace(body.Name))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, it)
}

// DeleteType removes an unused institution type.
// DELETE /api/institution-types/{id}
func (h *Institutions) DeleteType(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.svc.DeleteInstitutionType(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Institution type deleted")
}

// List returns institutions matching the query filters.
// GET /api/institutions?type_id=&country=&active=
func (h *Institutions) List(w http.ResponseWriter, r *http.Request) {
	typeID, err := uuidQuery(r, "type_id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	f := store.InstitutionFilter{
		TypeID:      typeID,
		CountryCode: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("country"))),
		IsActive:    boolQuery(r, "active"),
	}
	institutions, err := h.svc.ListInstitutions(f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	for i := range institutions {
		h.fillLogoURL(&institutions[i])
	}
	respond(w, http.StatusOK, institutions)
}

// Get returns one institution by id.
// GET /api/institutions/{id}
func (h *Institutions) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	inst, err := h.svc.GetInstitution(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.fillLogoURL(inst)
	respond(w, http.StatusOK, inst)
}

// GetBySlug returns one institution by slug.
// GET /api/institutions/slug/{slug}
func (h *Institutions) GetBySlug(w http.ResponseWriter, r *http.Request) {
	inst, err := h.svc.GetInstitutionBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.fillLogoURL(inst)
	respond(w, http.StatusOK, inst)
}

// Create inserts an institution.
// POST /api/institutions
func (h *Institutions) Create(w http.ResponseWriter, r *http.Request) {
	var in catalog.InstitutionInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	inst, err := h.svc.CreateInstitution(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, inst)
}

// Update modifies an institution.
// PUT /api/institutions/{id}
func (h *Institutions) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in catalog.InstitutionInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	inst, err := h.svc.UpdateInstitution(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.fillLogoURL(inst)
	respond(w, http.StatusOK, inst)
}

// Delete removes an institution without products.
// DELETE /api/institutions/{id}
func (h *Institutions) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.svc.DeleteInstitution(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Institution deleted")
}

// UploadLogo accepts a multipart logo upload, stores it in object
// storage, and records the key on the institution.
// POST /api/institutions/{id}/logo
func (h *Institutions) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, r, &catalog.Error{
			Status:  http.StatusServiceUnavailable,
			Code:    "STORAGE_UNAVAILABLE",
			Message: "Object storage is not configured",
		})
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	inst, err := h.svc.GetInstitution(id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Limit request body to maxLogoSize plus overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoSize+1024)
	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		respondError(w, r, catalog.ErrValidation("File too large. Maximum size is 2 MB", nil))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, catalog.ErrValidation("No file provided", nil))
		return
	}
	defer file.Close()

	if header.Size > maxLogoSize {
		respondError(w, r, catalog.ErrValidation("File too large. Maximum size is 2 MB", nil))
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	// DetectContentType returns text/xml or application/xml for SVGs.
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}

	if !allowedLogoTypes[contentType] {
		respondError(w, r, catalog.ErrValidation(fmt.Sprintf("File type %q is not allowed", contentType), nil))
		return
	}

	rest, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	payload := append(sniffBuf[:n], rest...)

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = logoExtension(contentType)
	}
	key := fmt.Sprintf("logos/%s/%s%s", inst.ID, uuid.New().String(), ext)

	if err := h.storage.Upload(r.Context(), key, contentType, bytes.NewReader(payload), int64(len(payload))); err != nil {
		respondError(w, r, err)
		return
	}

	// Remove the previous logo after the new one is in place.
	if inst.LogoKey != nil && *inst.LogoKey != key {
		if err := h.storage.Delete(r.Context(), *inst.LogoKey); err != nil {
			slog.Warn("delete old logo", "key", *inst.LogoKey, "error", err)
		}
	}

	updated, err := h.svc.SetInstitutionLogo(id, &key)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.fillLogoURL(updated)
	respond(w, http.StatusOK, updated)
}

// fillLogoURL derives the public logo URL when both a stored key and a
// storage client exist.
func (h *Institutions) fillLogoURL(inst *models.Institution) {
	if h.storage == nil || inst == nil || inst.LogoKey == nil {
		return
	}
	inst.LogoURL = h.storage.FileURL(*inst.LogoKey)
}

// DeleteLogo removes the stored logo of an institution.
// DELETE /api/institutions/{id}/logo
func (h *Institutions) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, r, &catalog.Error{
			Status:  http.StatusServiceUnavailable,
			Code:    "STORAGE_UNAVAILABLE",
			Message: "Object storage is not configured",
		})
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	inst, err := h.svc.GetInstitution(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if inst.LogoKey == nil {
		respondError(w, r, catalog.ErrNotFound("Institution has no logo"))
		return
	}

	if err := h.storage.Delete(r.Context(), *inst.LogoKey); err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := h.svc.SetInstitutionLogo(id, nil); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Logo deleted")
}

// logoExtension returns a file extension for known logo content types.
func logoExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	return ""
}
