package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// GenOrderNumber renders the per-restaurant order sequence as ORD-<restaurant>-<year>-<seq>.
func GenOrderNumber(restaurantID uint, seq uint, t time.Time) string {
	return fmt.Sprintf("ORD-%d-%d-%06d", restaurantID, t.Year(), seq)
}

// Slugify lowercases s and collapses every run of non-alphanumerics into one dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
