package store

import (
	"testing"
	"time"
)

func TestSavedProductStoreSaveUnsave(t *testing.T) {
	db := testDB(t)
	saved := NewSavedProductStore(db)

	cat := testCategory(t, db, "Test Deposits Sv", "test-deposits-sv")
	inst := testInstitution(t, db, "Test Bank Sv", "test-bank-sv")
	p := testProduct(t, db, "TST-SV000001", cat.ID, inst.ID)
	u := testUser(t, db, "saved-test@bankcat.local")

	if _, err := saved.Save(u.ID, p.ID); err != nil {
		t.Fatalf("save: %v", err)
	}

	exists, err := saved.Exists(u.ID, p.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("exists = false after save")
	}

	ids, err := saved.IDsByUser(u.ID)
	if err != nil {
		t.Fatalf("ids by user: %v", err)
	}
	if len(ids) != 1 || ids[0] != p.ID {
		t.Errorf("ids by user = %v, want [%s]", ids, p.ID)
	}

	// Saving the same product twice violates the unique constraint.
	if _, err := saved.Save(u.ID, p.ID); !IsConflict(err) {
		t.Errorf("duplicate save error = %v, want conflict", err)
	}

	removed, err := saved.Unsave(u.ID, p.ID)
	if err != nil {
		t.Fatalf("unsave: %v", err)
	}
	if !removed {
		t.Error("unsave reported no row removed")
	}

	removed, err = saved.Unsave(u.ID, p.ID)
	if err != nil {
		t.Fatalf("second unsave: %v", err)
	}
	if removed {
		t.Error("second unsave reported a row removed")
	}
}

func TestCompareListStoreRoundTrip(t *testing.T) {
	db := testDB(t)
	lists := NewCompareListStore(db)

	u := testUser(t, db, "compare-test@bankcat.local")

	cl, err := lists.Create(u.ID, "Deposits shortlist", []string{"TST-CMP00001", "TST-CMP00002"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { lists.Delete(cl.ID) })

	got, err := lists.FindByID(cl.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatal("list not found after create")
	}
	if len(got.ProductIDs) != 2 || got.ProductIDs[0] != "TST-CMP00001" {
		t.Errorf("product ids = %v", got.ProductIDs)
	}

	updated, err := lists.Update(cl.ID, "Deposits shortlist", []string{"TST-CMP00003"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.ProductIDs) != 1 || updated.ProductIDs[0] != "TST-CMP00003" {
		t.Errorf("updated product ids = %v", updated.ProductIDs)
	}

	// An empty set round-trips as an empty array, not null.
	emptied, err := lists.Update(cl.ID, "Deposits shortlist", nil)
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if emptied.ProductIDs == nil || len(emptied.ProductIDs) != 0 {
		t.Errorf("emptied product ids = %#v, want []", emptied.ProductIDs)
	}

	// The (user, name) pair is unique.
	if _, err := lists.Create(u.ID, "Deposits shortlist", nil); !IsConflict(err) {
		t.Errorf("duplicate name error = %v, want conflict", err)
	}
}

func TestSharedLinkStoreTokenLookup(t *testing.T) {
	db := testDB(t)
	links := NewSharedLinkStore(db)

	u := testUser(t, db, "share-test@bankcat.local")

	expires := time.Now().Add(24 * time.Hour)
	sl, err := links.Create(u.ID, "test-token-abc123", []string{"TST-SHR00001"}, &expires)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { links.Delete(sl.ID) })

	got, err := links.FindByToken("test-token-abc123")
	if err != nil {
		t.Fatalf("find by token: %v", err)
	}
	if got == nil {
		t.Fatal("link not found by token")
	}
	if got.Expired() {
		t.Error("link with future expiry reports expired")
	}
	if len(got.ProductIDs) != 1 || got.ProductIDs[0] != "TST-SHR00001" {
		t.Errorf("product ids = %v", got.ProductIDs)
	}

	missing, err := links.FindByToken("test-token-missing")
	if err != nil {
		t.Fatalf("find missing token: %v", err)
	}
	if missing != nil {
		t.Error("missing token returned a row")
	}
}

func TestSharedLinkStoreDeleteExpired(t *testing.T) {
	db := testDB(t)
	links := NewSharedLinkStore(db)

	u := testUser(t, db, "share-expired@bankcat.local")

	past := time.Now().Add(-time.Hour)
	sl, err := links.Create(u.ID, "test-token-expired", nil, &past)
	if err != nil {
		t.Fatalf("create expired: %v", err)
	}
	t.Cleanup(func() { links.Delete(sl.ID) })

	if !sl.Expired() {
		t.Error("link with past expiry reports not expired")
	}

	n, err := links.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n < 1 {
		t.Errorf("delete expired removed %d rows, want at least 1", n)
	}

	gone, err := links.FindByToken("test-token-expired")
	if err != nil {
		t.Fatalf("find after purge: %v", err)
	}
	if gone != nil {
		t.Error("expired link survived purge")
	}
}
