package catalog

import (
	"testing"

	"github.com/google/uuid"

	"bankcat/internal/models"
)

// mapLookup builds a categoryLookup over an in-memory parent map.
func mapLookup(parents map[uuid.UUID]*uuid.UUID) categoryLookup {
	return func(id uuid.UUID) (*models.Category, error) {
		parent, ok := parents[id]
		if !ok {
			return nil, nil
		}
		return &models.Category{ID: id, ParentID: parent}, nil
	}
}

func TestWouldCycleSelfParent(t *testing.T) {
	id := uuid.New()
	cycle, err := wouldCycle(mapLookup(nil), id, id)
	if err != nil {
		t.Fatalf("wouldCycle: %v", err)
	}
	if !cycle {
		t.Error("self-parent not detected as cycle")
	}
}

func TestWouldCycleDescendantParent(t *testing.T) {
	// a -> b -> c. Moving a under c closes a loop.
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	lookup := mapLookup(map[uuid.UUID]*uuid.UUID{
		a: nil,
		b: &a,
		c: &b,
	})

	cycle, err := wouldCycle(lookup, a, c)
	if err != nil {
		t.Fatalf("wouldCycle: %v", err)
	}
	if !cycle {
		t.Error("grandchild parent not detected as cycle")
	}

	cycle, err = wouldCycle(lookup, a, b)
	if err != nil {
		t.Fatalf("wouldCycle: %v", err)
	}
	if !cycle {
		t.Error("child parent not detected as cycle")
	}
}

func TestWouldCycleValidReparent(t *testing.T) {
	// Two independent roots; moving a under x is fine.
	a, x, y := uuid.New(), uuid.New(), uuid.New()
	lookup := mapLookup(map[uuid.UUID]*uuid.UUID{
		a: nil,
		x: &y,
		y: nil,
	})

	cycle, err := wouldCycle(lookup, a, x)
	if err != nil {
		t.Fatalf("wouldCycle: %v", err)
	}
	if cycle {
		t.Error("valid reparent flagged as cycle")
	}
}

func TestWouldCycleMissingAncestorStopsWalk(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	dangling := uuid.New()
	lookup := mapLookup(map[uuid.UUID]*uuid.UUID{
		b: &dangling, // parent row missing
	})

	cycle, err := wouldCycle(lookup, a, b)
	if err != nil {
		t.Fatalf("wouldCycle: %v", err)
	}
	if cycle {
		t.Error("dangling ancestor chain flagged as cycle")
	}
}

func TestWouldCycleDepthCap(t *testing.T) {
	// A two-node parent loop that never reaches the moved category must
	// terminate with an error, not spin.
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	lookup := mapLookup(map[uuid.UUID]*uuid.UUID{
		b: &c,
		c: &b,
	})

	if _, err := wouldCycle(lookup, a, b); err == nil {
		t.Error("looping ancestor chain did not error")
	}
}
