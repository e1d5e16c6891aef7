package store

import (
	"testing"
	"time"

	"bankcat/internal/models"
)

func TestRateHistoryStoreAppendAndList(t *testing.T) {
	db := testDB(t)
	rates := NewRateHistoryStore(db)

	cat := testCategory(t, db, "Test Deposits Rh", "test-deposits-rh")
	inst := testInstitution(t, db, "Test Bank Rh", "test-bank-rh")
	p := testProduct(t, db, "TST-RH000001", cat.ID, inst.ID)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, value := range []float64{4.0, 4.25, 4.5} {
		at := base.AddDate(0, i, 0)
		_, err := rates.Create(&models.RateHistoryEntry{
			ProductID:  p.ID,
			Metric:     "interest_rate",
			Value:      value,
			Currency:   "RON",
			Source:     "import",
			RecordedAt: at,
		})
		if err != nil {
			t.Fatalf("create entry %d: %v", i, err)
		}
	}

	entries, err := rates.ListByProduct(p.ID, RateHistoryFilter{Metric: "interest_rate"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("list = %d entries, want 3", len(entries))
	}
	if entries[0].Value != 4.5 {
		t.Errorf("newest entry value = %v, want 4.5 (newest first)", entries[0].Value)
	}

	latest, err := rates.Latest(p.ID, "interest_rate")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Value != 4.5 {
		t.Fatalf("latest = %v, want value 4.5", latest)
	}
}

func TestRateHistoryStoreRangeFilter(t *testing.T) {
	db := testDB(t)
	rates := NewRateHistoryStore(db)

	cat := testCategory(t, db, "Test Deposits Rf", "test-deposits-rf")
	inst := testInstitution(t, db, "Test Bank Rf", "test-bank-rf")
	p := testProduct(t, db, "TST-RF000001", cat.ID, inst.ID)

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{jan, jun} {
		_, err := rates.Create(&models.RateHistoryEntry{
			ProductID: p.ID, Metric: "apy", Value: 1.0, Currency: "EUR",
			RecordedAt: at,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries, err := rates.ListByProduct(p.ID, RateHistoryFilter{Metric: "apy", From: &from})
	if err != nil {
		t.Fatalf("list with from: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("list with from = %d entries, want 1", len(entries))
	}
	if !entries[0].RecordedAt.Equal(jun) {
		t.Errorf("filtered entry at %v, want %v", entries[0].RecordedAt, jun)
	}
}

func TestRateHistoryStoreRecordedAtDefaultsNow(t *testing.T) {
	db := testDB(t)
	rates := NewRateHistoryStore(db)

	cat := testCategory(t, db, "Test Deposits Rd", "test-deposits-rd")
	inst := testInstitution(t, db, "Test Bank Rd", "test-bank-rd")
	p := testProduct(t, db, "TST-RD000001", cat.ID, inst.ID)

	before := time.Now().Add(-time.Minute)
	e, err := rates.Create(&models.RateHistoryEntry{
		ProductID: p.ID, Metric: "fee", Value: 25, Currency: "RON",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.RecordedAt.Before(before) {
		t.Errorf("recorded_at = %v, want defaulted to roughly now", e.RecordedAt)
	}
}
