package store

import (
	"testing"

	"bankcat/internal/fields"
	"bankcat/internal/models"
)

func TestProductStoreCreateAndDetails(t *testing.T) {
	db := testDB(t)
	products := NewProductStore(db)

	cat := testCategory(t, db, "Test Deposits", "test-deposits-ps")
	inst := testInstitution(t, db, "Test Bank PS", "test-bank-ps")

	t.Cleanup(func() { cleanProducts(t, db, "TST-00000001") })

	p, err := products.Create(&models.Product{
		ID:            "TST-00000001",
		InstitutionID: inst.ID,
		CategoryID:    cat.ID,
		Name:          "Test Fixed Deposit",
		Slug:          "test-fixed-deposit",
		Details: fields.Bag{
			"interestRate": fields.Number(4.5),
			"currency":     fields.String("RON"),
			"compounding":  fields.Boolean(true),
		},
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := products.FindByID(p.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if got == nil {
		t.Fatal("product not found after create")
	}
	if got.Details["interestRate"].Kind != fields.KindNumber {
		t.Errorf("interestRate kind = %v, want number", got.Details["interestRate"].Kind)
	}
	if got.Details["interestRate"].Num != 4.5 {
		t.Errorf("interestRate = %v, want 4.5", got.Details["interestRate"].Num)
	}
	if got.Details["currency"].Str != "RON" {
		t.Errorf("currency = %q, want RON", got.Details["currency"].Str)
	}
}

func TestProductStoreListCategoryIncludesChildren(t *testing.T) {
	db := testDB(t)
	products := NewProductStore(db)
	cats := NewCategoryStore(db)

	parent := testCategory(t, db, "Test Loans Parent", "test-loans-parent")
	inst := testInstitution(t, db, "Test Bank LC", "test-bank-lc")

	t.Cleanup(func() {
		cleanProducts(t, db, "TST-CHILD001")
		cleanCategories(t, db, "test-loans-child")
	})

	child, err := cats.Create(&models.Category{
		Name: "Test Loans Child", Slug: "test-loans-child",
		ParentID: &parent.ID, Level: 1,
	})
	if err != nil {
		t.Fatalf("create child category: %v", err)
	}

	testProduct(t, db, "TST-CHILD001", child.ID, inst.ID)

	// Filtering by the parent must also match products filed one level down.
	items, total, err := products.List(ProductFilter{CategoryID: &parent.ID})
	if err != nil {
		t.Fatalf("list by parent: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("list by parent: total=%d items=%d, want 1/1", total, len(items))
	}
	if items[0].ID != "TST-CHILD001" {
		t.Errorf("listed product = %s", items[0].ID)
	}
}

func TestProductStoreListPagination(t *testing.T) {
	db := testDB(t)
	products := NewProductStore(db)

	cat := testCategory(t, db, "Test Cards Pg", "test-cards-pg")
	inst := testInstitution(t, db, "Test Bank Pg", "test-bank-pg")

	ids := []string{"TST-PG000001", "TST-PG000002", "TST-PG000003"}
	for _, id := range ids {
		testProduct(t, db, id, cat.ID, inst.ID)
	}

	items, total, err := products.List(ProductFilter{
		CategoryID: &cat.ID,
		Sort:       "name",
		Order:      "asc",
		Limit:      2,
	})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(items) != 2 {
		t.Fatalf("page 1 size = %d, want 2", len(items))
	}

	rest, _, err := products.List(ProductFilter{
		CategoryID: &cat.ID,
		Sort:       "name",
		Order:      "asc",
		Limit:      2,
		Offset:     2,
	})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("page 2 size = %d, want 1", len(rest))
	}
}

func TestProductStoreListByIDsActiveOnly(t *testing.T) {
	db := testDB(t)
	products := NewProductStore(db)

	cat := testCategory(t, db, "Test Accounts IA", "test-accounts-ia")
	inst := testInstitution(t, db, "Test Bank IA", "test-bank-ia")

	active := testProduct(t, db, "TST-IA000001", cat.ID, inst.ID)
	inactive := testProduct(t, db, "TST-IA000002", cat.ID, inst.ID)
	if err := products.SetActive(inactive.ID, false); err != nil {
		t.Fatalf("set inactive: %v", err)
	}

	items, err := products.ListByIDs([]string{active.ID, inactive.ID, "TST-MISSING0"})
	if err != nil {
		t.Fatalf("list by ids: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("list by ids = %d rows, want 1", len(items))
	}
	if items[0].ID != active.ID {
		t.Errorf("list by ids returned %s, want %s", items[0].ID, active.ID)
	}
}

func TestProductStoreSearch(t *testing.T) {
	db := testDB(t)
	products := NewProductStore(db)

	cat := testCategory(t, db, "Test Mortgage Sr", "test-mortgage-sr")
	inst := testInstitution(t, db, "Zeta Savings House", "test-zeta-savings")

	testProduct(t, db, "TST-SR000001", cat.ID, inst.ID)

	// Searching by institution name must match through the join.
	items, total, err := products.List(ProductFilter{Search: "Zeta Savings"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("search: total=%d items=%d, want 1/1", total, len(items))
	}
}
