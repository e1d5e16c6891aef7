package store

import (
	"testing"

	"bankcat/internal/models"
)

func TestCategoryStoreCRUD(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)

	t.Cleanup(func() {
		cleanCategories(t, db, "test-cat-child", "test-cat-root")
	})

	root, err := cats.Create(&models.Category{
		Name:        "Test Cat Root",
		Slug:        "test-cat-root",
		Description: "fixture",
	})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if root.Level != 0 {
		t.Errorf("root level = %d, want 0", root.Level)
	}
	if root.ParentID != nil {
		t.Errorf("root parent = %v, want nil", root.ParentID)
	}

	child, err := cats.Create(&models.Category{
		Name:     "Test Cat Child",
		Slug:     "test-cat-child",
		ParentID: &root.ID,
		Level:    root.Level + 1,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.Level != 1 {
		t.Errorf("child level = %d, want 1", child.Level)
	}

	found, err := cats.FindBySlug("test-cat-child")
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if found == nil || found.ID != child.ID {
		t.Fatalf("find by slug returned %v, want child", found)
	}

	n, err := cats.CountChildren(root.ID)
	if err != nil {
		t.Fatalf("count children: %v", err)
	}
	if n != 1 {
		t.Errorf("count children = %d, want 1", n)
	}

	children, err := cats.FindAll(CategoryFilter{ParentID: &root.ID})
	if err != nil {
		t.Fatalf("find children: %v", err)
	}
	if len(children) != 1 || children[0].ID != child.ID {
		t.Errorf("find children returned %d rows", len(children))
	}

	child.Name = "Test Cat Child Renamed"
	if err := cats.Update(child); err != nil {
		t.Fatalf("update child: %v", err)
	}
	updated, err := cats.FindByID(child.ID)
	if err != nil {
		t.Fatalf("reload child: %v", err)
	}
	if updated.Name != "Test Cat Child Renamed" {
		t.Errorf("updated name = %q", updated.Name)
	}

	if err := cats.Delete(child.ID); err != nil {
		t.Fatalf("delete child: %v", err)
	}
	gone, err := cats.FindByID(child.ID)
	if err != nil {
		t.Fatalf("find deleted: %v", err)
	}
	if gone != nil {
		t.Error("deleted category still found")
	}
}

func TestCategoryStoreHierarchy(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)

	t.Cleanup(func() {
		cleanCategories(t, db, "test-tree-leaf", "test-tree-root")
	})

	root, err := cats.Create(&models.Category{Name: "Test Tree Root", Slug: "test-tree-root"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	leaf, err := cats.Create(&models.Category{
		Name: "Test Tree Leaf", Slug: "test-tree-leaf",
		ParentID: &root.ID, Level: 1,
	})
	if err != nil {
		t.Fatalf("create leaf: %v", err)
	}

	tree, err := cats.Hierarchy()
	if err != nil {
		t.Fatalf("hierarchy: %v", err)
	}

	var gotRoot *models.Category
	for i := range tree {
		if tree[i].ID == root.ID {
			gotRoot = &tree[i]
		}
		if tree[i].ParentID != nil {
			t.Errorf("hierarchy top level contains non-root %s", tree[i].Slug)
		}
	}
	if gotRoot == nil {
		t.Fatal("hierarchy missing created root")
	}
	if len(gotRoot.Children) != 1 || gotRoot.Children[0].ID != leaf.ID {
		t.Errorf("root children = %d, want the one leaf", len(gotRoot.Children))
	}
}

func TestCategoryFindMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)

	c, err := cats.FindBySlug("test-does-not-exist")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if c != nil {
		t.Errorf("find missing = %v, want nil", c)
	}
}
