// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"bankcat/internal/models"
)

// maxAncestorDepth bounds the upward walk so a corrupted parent chain
// cannot loop forever.
const maxAncestorDepth = 64

// categoryLookup resolves a category by id, returning nil when absent.
type categoryLookup func(id uuid.UUID) (*models.Category, error)

// wouldCycle reports whether attaching categoryID under newParentID
// would create a cycle. It walks the ancestor chain upward from the
// proposed parent; hitting categoryID on the way means the parent is a
// descendant of the category being moved. Self-parenting is a cycle.
func wouldCycle(lookup categoryLookup, categoryID, newParentID uuid.UUID) (bool, error) {
	if categoryID == newParentID {
		return true, nil
	}

	current := newParentID
	for depth := 0; depth < maxAncestorDepth; depth++ {
		cat, err := lookup(current)
		if err != nil {
			return false, err
		}
		if cat == nil || cat.ParentID == nil {
			return false, nil
		}
		if *cat.ParentID == categoryID {
			return true, nil
		}
		current = *cat.ParentID
	}
	return false, fmt.Errorf("category ancestor chain deeper than %d, assuming corruption", maxAncestorDepth)
}
