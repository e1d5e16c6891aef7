// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fields

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// dateLayouts are tried in order when deciding whether a string is a date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// InferType reports the type tag for a single value. Precedence for
// strings: date, then number, then plain string. Numbers split into
// integer and decimal. Arrays report a uniform element type when all
// elements agree, otherwise array<mixed>.
func InferType(v Value) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindString:
		if isDateString(v.Str) {
			return "date"
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil && strings.TrimSpace(v.Str) != "" {
			return "number"
		}
		return "string"
	case KindNumber:
		if v.Num == math.Trunc(v.Num) && !math.IsInf(v.Num, 0) {
			return "integer"
		}
		return "decimal"
	case KindBool:
		return "boolean"
	case KindArray:
		if len(v.Arr) == 0 {
			return "array"
		}
		first := InferType(v.Arr[0])
		for _, elem := range v.Arr[1:] {
			if InferType(elem) != first {
				return "array<mixed>"
			}
		}
		return "array<" + first + ">"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// isDateString reports whether s parses as a date in one of the accepted
// layouts.
func isDateString(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// fieldDescriptions maps well-known banking field names to human-readable
// descriptions. Unknown keys fall back to a camelCase split.
var fieldDescriptions = map[string]string{
	"interestRate":   "Interest rate percentage",
	"minimumAmount":  "Minimum amount required",
	"maximumAmount":  "Maximum amount allowed",
	"tenure":         "Tenure period",
	"tenureUnit":     "Unit for tenure (days, months, years)",
	"currency":       "Currency code (e.g., LKR, USD)",
	"features":       "List of product features",
	"penaltyRate":    "Penalty rate percentage",
	"fees":           "Associated fees",
	"requirements":   "Product requirements",
	"benefits":       "Product benefits",
	"eligibility":    "Eligibility criteria",
	"terms":          "Terms and conditions",
	"maturityAmount": "Amount at maturity",
	"monthlyPayment": "Monthly payment amount",
	"annualFee":      "Annual fee amount",
	"processingFee":  "Processing fee amount",
}

// Describe returns a human-readable description for a field key: the
// fixed table entry when one exists, otherwise the key split on
// camelCase with its first letter capitalized ("penaltyRate" becomes
// "Penalty rate").
func Describe(key string) string {
	if desc, ok := fieldDescriptions[key]; ok {
		return desc
	}
	if key == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Frequency records how many sampled examples a field has, and what
// share of the scanned products that represents.
type Frequency struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// FieldSchema is the inferred description of one attribute key across a
// set of products.
type FieldSchema struct {
	Key         string    `json:"key"`
	Type        string    `json:"type"`
	Examples    []Value   `json:"examples"`
	IsRequired  bool      `json:"is_required"`
	Description string    `json:"description"`
	Frequency   Frequency `json:"frequency"`
}

// maxExamples caps how many distinct example values are kept per field.
const maxExamples = 5

// Analyze scans the attribute bags of a product set and infers a schema
// per observed key. A key whose inferred type varies across products
// degrades to "mixed", a one-way transition that never reverts within
// the scan. The result is sorted by example-coverage percentage,
// descending, with key order breaking ties.
func Analyze(bags []Bag) []FieldSchema {
	type fieldInfo struct {
		schema   FieldSchema
		seen     map[string]bool
	}
	fieldMap := make(map[string]*fieldInfo)
	var order []string

	for _, bag := range bags {
		for _, key := range sortedKeys(bag) {
			value := bag[key]

			info, ok := fieldMap[key]
			if !ok {
				info = &fieldInfo{
					schema: FieldSchema{
						Key:         key,
						Type:        InferType(value),
						Description: Describe(key),
					},
					seen: make(map[string]bool),
				}
				fieldMap[key] = info
				order = append(order, key)
			}

			if len(info.schema.Examples) < maxExamples {
				canon := value.canonical()
				if !info.seen[canon] {
					info.seen[canon] = true
					info.schema.Examples = append(info.schema.Examples, value)
				}
			}

			current := InferType(value)
			if info.schema.Type != current && info.schema.Type != "mixed" {
				info.schema.Type = "mixed"
			}
		}
	}

	total := len(bags)
	result := make([]FieldSchema, 0, len(order))
	for _, key := range order {
		schema := fieldMap[key].schema
		schema.Frequency.Count = len(schema.Examples)
		if total > 0 {
			schema.Frequency.Percentage = int(math.Round(float64(len(schema.Examples)) / float64(total) * 100))
		}
		result = append(result, schema)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Frequency.Percentage != result[j].Frequency.Percentage {
			return result[i].Frequency.Percentage > result[j].Frequency.Percentage
		}
		return result[i].Key < result[j].Key
	})
	return result
}
