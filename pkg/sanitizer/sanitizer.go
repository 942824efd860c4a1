// Package sanitizer normalises user input before it is validated or stored.
package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var strict = bluemonday.StrictPolicy()

// Email trims and lowercases an address so lookups are case-insensitive.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Name trims, collapses inner whitespace runs to one space and applies NFC so
// visually identical names compare equal.
func Name(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Text trims and applies NFC, keeping line breaks intact.
func Text(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// StripHTML removes every tag and leaves plain text with entities decoded,
// so "<b>R&amp;D</b>" becomes "R&D".
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return html.UnescapeString(strict.Sanitize(s))
}

// Strings trims every element, drops empties and removes duplicates while
// keeping first-seen order.
func Strings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Apply runs transforms in order.
func Apply[T any](value T, transforms ...func(T) T) T {
	for _, fn := range transforms {
		value = fn(value)
	}
	return value
}
