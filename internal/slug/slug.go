// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation and display-friendly
// product identifier derivation from arbitrary strings.
package slug

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun matches one or more consecutive whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)

	// foldDiacritics decomposes accented characters and strips the
	// combining marks, so "Crédit" becomes "Credit".
	foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Crédit Agricole! 2024" → "credit-agricole-2024"
// Empty input yields an empty slug. Generate is idempotent.
func Generate(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}
	result := strings.ToLower(strings.TrimSpace(folded))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ProductID derives a display-friendly product identifier from a name
// hint: an upper-case prefix built from the first letters of up to four
// words, followed by a random hex suffix. Uniqueness rests on the random
// suffix only. Callers must not rely on the prefix for lookups.
// Example: "Fixed Deposit Premium" → "FDP-9f3a2c1d"
func ProductID(hint string) string {
	prefix := initials(hint, 4)
	if prefix == "" {
		prefix = "PRD"
	}

	buf := make([]byte, 4)
	rand.Read(buf)
	return prefix + "-" + hex.EncodeToString(buf)
}

// initials returns the upper-cased first letters of the first max words
// of s, skipping anything the slug generator already discarded.
func initials(s string, max int) string {
	var b strings.Builder
	for _, word := range strings.Split(Generate(s), "-") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		if b.Len() >= max {
			break
		}
	}
	return b.String()
}
