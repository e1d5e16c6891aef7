// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"github.com/google/uuid"

	"bankcat/internal/models"
	"bankcat/internal/slug"
	"bankcat/internal/store"
)

// ListInstitutionTypes returns every institution type.
func (s *Service) ListInstitutionTypes() ([]models.InstitutionType, error) {
	return s.institutionTypes.List()
}

// CreateInstitutionType inserts an institution type.
func (s *Service) CreateInstitutionType(code, name string) (*models.InstitutionType, error) {
	if code == "" || name == "" {
		return nil, ErrValidation("Institution type code and name are required", nil)
	}
	it, err := s.institutionTypes.Create(&models.InstitutionType{Code: code, Name: name})
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("An institution type with this code already exists")
		}
		return nil, err
	}
	return it, nil
}

// GetInstitutionTypeByCode returns one institution type by its unique
// code.
func (s *Service) GetInstitutionTypeByCode(code string) (*models.InstitutionType, error) {
	it, err := s.institutionTypes.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound("Institution type not found")
	}
	return it, nil
}

// DeleteInstitutionType removes a type unless institutions reference it.
func (s *Service) DeleteInstitutionType(id uuid.UUID) error {
	it, err := s.institutionTypes.FindByID(id)
	if err != nil {
		return err
	}
	if it == nil {
		return ErrNotFound("Institution type not found")
	}

	count, err := s.institutionTypes.CountInstitutions(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrValidation("Institution type is in use and cannot be deleted", nil)
	}
	return s.institutionTypes.Delete(id)
}

// InstitutionInput carries the writable institution fields.
type InstitutionInput struct {
	TypeID      uuid.UUID `json:"type_id"`
	Name        string    `json:"name"`
	CountryCode string    `json:"country_code"`
	IsActive    *bool     `json:"is_active"`
}

// ListInstitutions returns institutions matching the filter.
func (s *Service) ListInstitutions(f store.InstitutionFilter) ([]models.Institution, error) {
	return s.institutions.List(f)
}

// GetInstitution returns an institution by id.
func (s *Service) GetInstitution(id uuid.UUID) (*models.Institution, error) {
	inst, err := s.institutions.FindByID(id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrNotFound("Institution not found")
	}
	return inst, nil
}

// GetInstitutionBySlug returns an institution by slug.
func (s *Service) GetInstitutionBySlug(instSlug string) (*models.Institution, error) {
	inst, err := s.institutions.FindBySlug(instSlug)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrNotFound("Institution not found")
	}
	return inst, nil
}

// CreateInstitution inserts an institution under an existing type,
// deriving the slug from the name.
func (s *Service) CreateInstitution(in InstitutionInput) (*models.Institution, error) {
	if in.Name == "" {
		return nil, ErrValidation("Institution name is required", nil)
	}
	it, err := s.institutionTypes.FindByID(in.TypeID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrValidation("Unknown institution type", nil)
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	inst, err := s.institutions.Create(&models.Institution{
		TypeID:      in.TypeID,
		Name:        in.Name,
		Slug:        slug.Generate(in.Name),
		CountryCode: in.CountryCode,
		IsActive:    active,
	})
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("An institution with this slug already exists")
		}
		return nil, err
	}
	return inst, nil
}

// UpdateInstitution modifies an institution, re-deriving the slug when
// the name changes.
func (s *Service) UpdateInstitution(id uuid.UUID, in InstitutionInput) (*models.Institution, error) {
	inst, err := s.GetInstitution(id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, ErrValidation("Institution name is required", nil)
	}
	it, err := s.institutionTypes.FindByID(in.TypeID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrValidation("Unknown institution type", nil)
	}

	if in.Name != inst.Name {
		inst.Slug = slug.Generate(in.Name)
	}
	inst.TypeID = in.TypeID
	inst.Name = in.Name
	inst.CountryCode = in.CountryCode
	if in.IsActive != nil {
		inst.IsActive = *in.IsActive
	}

	if err := s.institutions.Update(inst); err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("An institution with this slug already exists")
		}
		return nil, err
	}
	return inst, nil
}

// SetInstitutionLogo stores the uploaded logo's object key. Pass nil to
// clear it.
func (s *Service) SetInstitutionLogo(id uuid.UUID, key *string) (*models.Institution, error) {
	inst, err := s.GetInstitution(id)
	if err != nil {
		return nil, err
	}
	inst.LogoKey = key
	if err := s.institutions.Update(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// DeleteInstitution removes an institution unless products reference it.
func (s *Service) DeleteInstitution(id uuid.UUID) error {
	if _, err := s.GetInstitution(id); err != nil {
		return err
	}

	count, err := s.products.CountByInstitution(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrValidation("Institution has products and cannot be deleted", nil)
	}
	return s.institutions.Delete(id)
}
