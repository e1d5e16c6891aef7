package fields

import (
	"encoding/json"
	"testing"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null(), "null"},
		{"plain string", String("savings account"), "string"},
		{"date string", String("2024-06-01"), "date"},
		{"rfc3339 string", String("2024-06-01T12:30:00Z"), "date"},
		{"numeric string", String("12.5"), "number"},
		{"integer string", String("42"), "number"},
		{"percentage string is plain", String("5%"), "string"},
		{"integer", Number(5), "integer"},
		{"integer-valued float", Number(5.0), "integer"},
		{"decimal", Number(5.25), "decimal"},
		{"boolean", Boolean(true), "boolean"},
		{"empty array", Array(), "array"},
		{"uniform string array", Array(String("a"), String("b")), "array<string>"},
		{"uniform integer array", Array(Number(1), Number(2)), "array<integer>"},
		{"mixed array", Array(String("a"), Number(1)), "array<mixed>"},
		{"integer and decimal mix", Array(Number(1), Number(1.5)), "array<mixed>"},
		{"object", Object(map[string]Value{"a": Number(1)}), "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferType(tt.value); got != tt.want {
				t.Errorf("InferType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"interestRate", "Interest rate percentage"},
		{"currency", "Currency code (e.g., LKR, USD)"},
		{"penaltyRate", "Penalty rate percentage"},
		{"gracePeriodDays", "Grace period days"},
		{"cashback", "Cashback"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := Describe(tt.key); got != tt.want {
				t.Errorf("Describe(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestAnalyze_UniformType(t *testing.T) {
	bags := []Bag{
		{"rate": Number(5)},
		{"rate": Number(7)},
		{"rate": Number(3)},
	}

	result := Analyze(bags)
	if len(result) != 1 {
		t.Fatalf("expected 1 field, got %d", len(result))
	}
	if result[0].Key != "rate" {
		t.Errorf("key = %q, want %q", result[0].Key, "rate")
	}
	if result[0].Type != "integer" {
		t.Errorf("type = %q, want %q", result[0].Type, "integer")
	}
	if result[0].Frequency.Count != 3 {
		t.Errorf("count = %d, want 3", result[0].Frequency.Count)
	}
	if result[0].Frequency.Percentage != 100 {
		t.Errorf("percentage = %d, want 100", result[0].Frequency.Percentage)
	}
}

// TestAnalyze_MixedDegradation verifies that a conflicting value flips a
// field's type to "mixed" and that the flip is irreversible within the
// scan, even when later values agree with the original type again.
func TestAnalyze_MixedDegradation(t *testing.T) {
	bags := []Bag{
		{"rate": Number(5)},
		{"rate": String("5%")},
		{"rate": Number(6)},
		{"rate": Number(7)},
	}

	result := Analyze(bags)
	if len(result) != 1 {
		t.Fatalf("expected 1 field, got %d", len(result))
	}
	if result[0].Type != "mixed" {
		t.Errorf("type = %q, want %q", result[0].Type, "mixed")
	}
}

func TestAnalyze_ExamplesCapped(t *testing.T) {
	var bags []Bag
	for i := range 10 {
		bags = append(bags, Bag{"tenure": Number(float64(i))})
	}

	result := Analyze(bags)
	if len(result[0].Examples) != maxExamples {
		t.Errorf("examples = %d, want %d", len(result[0].Examples), maxExamples)
	}
}

func TestAnalyze_DuplicateExamplesDeduped(t *testing.T) {
	bags := []Bag{
		{"currency": String("LKR")},
		{"currency": String("LKR")},
		{"currency": String("USD")},
	}

	result := Analyze(bags)
	if got := len(result[0].Examples); got != 2 {
		t.Errorf("examples = %d, want 2", got)
	}
}

func TestAnalyze_SortedByCoverage(t *testing.T) {
	bags := []Bag{
		{"common": Number(1), "rare": Number(1)},
		{"common": Number(2)},
		{"common": Number(3)},
	}

	result := Analyze(bags)
	if len(result) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(result))
	}
	if result[0].Key != "common" || result[1].Key != "rare" {
		t.Errorf("order = [%q, %q], want [common, rare]", result[0].Key, result[1].Key)
	}
	if result[0].Frequency.Percentage <= result[1].Frequency.Percentage {
		t.Errorf("coverage not descending: %d then %d",
			result[0].Frequency.Percentage, result[1].Frequency.Percentage)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	if result := Analyze(nil); len(result) != 0 {
		t.Errorf("expected no fields, got %d", len(result))
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	raw := `{"interestRate":12.5,"tenure":24,"currency":"LKR","flexible":true,"features":["online","card"],"fees":{"annual":1500},"promo":null}`

	var bag Bag
	if err := json.Unmarshal([]byte(raw), &bag); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if bag["interestRate"].Kind != KindNumber || bag["interestRate"].Num != 12.5 {
		t.Errorf("interestRate = %+v, want number 12.5", bag["interestRate"])
	}
	if bag["currency"].Kind != KindString || bag["currency"].Str != "LKR" {
		t.Errorf("currency = %+v, want string LKR", bag["currency"])
	}
	if bag["flexible"].Kind != KindBool || !bag["flexible"].Bool {
		t.Errorf("flexible = %+v, want true", bag["flexible"])
	}
	if bag["features"].Kind != KindArray || len(bag["features"].Arr) != 2 {
		t.Errorf("features = %+v, want 2-element array", bag["features"])
	}
	if bag["fees"].Kind != KindObject {
		t.Errorf("fees = %+v, want object", bag["fees"])
	}
	if bag["promo"].Kind != KindNull {
		t.Errorf("promo = %+v, want null", bag["promo"])
	}

	// Encode and decode again; kinds must survive.
	encoded, err := json.Marshal(bag)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again Bag
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	for key, v := range bag {
		if again[key].Kind != v.Kind {
			t.Errorf("kind for %q changed after round trip: %d != %d", key, again[key].Kind, v.Kind)
		}
	}
}
