package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in NFC form with Unicode case folding applied.
// Two strings that differ only by case or composition fold to the same value.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFold reports whether sub occurs in s, ignoring case.
// An empty sub matches every string.
func ContainsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(Fold(s), Fold(sub))
}
