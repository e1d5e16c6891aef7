package store

import (
	"testing"

	"bankcat/internal/models"
)

func TestVersionStoreAppendNumbersSequentially(t *testing.T) {
	db := testDB(t)
	versions := NewVersionStore(db)

	cat := testCategory(t, db, "Test Deposits Vs", "test-deposits-vs")
	inst := testInstitution(t, db, "Test Bank Vs", "test-bank-vs")
	p := testProduct(t, db, "TST-VS000001", cat.ID, inst.ID)

	for i := 1; i <= 3; i++ {
		v, err := versions.Append(&models.ProductVersion{
			ProductID:  p.ID,
			Snapshot:   *p,
			ChangeNote: "append",
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if v.VersionNumber != i {
			t.Errorf("append %d assigned number %d", i, v.VersionNumber)
		}
	}

	count, err := versions.Count(p.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	latest, err := versions.Latest(p.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.VersionNumber != 3 {
		t.Fatalf("latest = %v, want version 3", latest)
	}

	list, err := versions.ListByProduct(p.ID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list = %d rows, want 3", len(list))
	}
	for i := range list {
		want := 3 - i
		if list[i].VersionNumber != want {
			t.Errorf("list[%d] = version %d, want %d (newest first)", i, list[i].VersionNumber, want)
		}
	}
}

func TestVersionStoreSnapshotRoundTrip(t *testing.T) {
	db := testDB(t)
	versions := NewVersionStore(db)

	cat := testCategory(t, db, "Test Deposits Sn", "test-deposits-sn")
	inst := testInstitution(t, db, "Test Bank Sn", "test-bank-sn")
	p := testProduct(t, db, "TST-SN000001", cat.ID, inst.ID)

	if _, err := versions.Append(&models.ProductVersion{ProductID: p.ID, Snapshot: *p}); err != nil {
		t.Fatalf("append: %v", err)
	}

	v, err := versions.FindByNumber(p.ID, 1)
	if err != nil {
		t.Fatalf("find by number: %v", err)
	}
	if v == nil {
		t.Fatal("version 1 not found")
	}
	if v.Snapshot.ID != p.ID || v.Snapshot.Name != p.Name {
		t.Errorf("snapshot = %s/%q, want %s/%q", v.Snapshot.ID, v.Snapshot.Name, p.ID, p.Name)
	}

	missing, err := versions.FindByNumber(p.ID, 99)
	if err != nil {
		t.Fatalf("find missing number: %v", err)
	}
	if missing != nil {
		t.Error("find missing number returned a row")
	}
}

func TestVersionStoreIndependentSequences(t *testing.T) {
	db := testDB(t)
	versions := NewVersionStore(db)

	cat := testCategory(t, db, "Test Deposits Iq", "test-deposits-iq")
	inst := testInstitution(t, db, "Test Bank Iq", "test-bank-iq")
	a := testProduct(t, db, "TST-IQ000001", cat.ID, inst.ID)
	b := testProduct(t, db, "TST-IQ000002", cat.ID, inst.ID)

	if _, err := versions.Append(&models.ProductVersion{ProductID: a.ID, Snapshot: *a}); err != nil {
		t.Fatalf("append a1: %v", err)
	}
	if _, err := versions.Append(&models.ProductVersion{ProductID: a.ID, Snapshot: *a}); err != nil {
		t.Fatalf("append a2: %v", err)
	}

	// The first version of another product starts at 1 regardless of
	// other products' histories.
	v, err := versions.Append(&models.ProductVersion{ProductID: b.ID, Snapshot: *b})
	if err != nil {
		t.Fatalf("append b1: %v", err)
	}
	if v.VersionNumber != 1 {
		t.Errorf("first version of b = %d, want 1", v.VersionNumber)
	}
}
