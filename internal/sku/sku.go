// Package sku derives the canonical SKU string from a variant's identity
// fields and normalizes style/color text the way it must look before a SKU
// is built (§3 SKU derivation, P3).
package sku

import (
	"regexp"
	"strings"
)

var (
	slashOrWhitespace = regexp.MustCompile(`[/\s]+`)
	dashRuns          = regexp.MustCompile(`-+`)
)

// Sanitize folds `/` and whitespace runs to a single `-` and collapses
// repeated dashes. Used for both the style and color components of a SKU.
func Sanitize(s string) string {
	s = slashOrWhitespace.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Build derives `{style}-{color}-{size}` per P3. Callers pass the already
// prefixed style and title-cased color; size passes through verbatim since
// size tokens never require dash-folding.
func Build(style, color, size string) string {
	return Sanitize(style) + "-" + Sanitize(color) + "-" + size
}

// TitleCase lowercases then capitalizes the first letter of each token,
// splitting on space, `-`, `/`, `&` (§4.3 color handling).
func TitleCase(s string) string {
	var b strings.Builder
	atWordStart := true
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '-', '/', '&':
			b.WriteRune(r)
			atWordStart = true
			continue
		}
		if atWordStart {
			b.WriteRune(toUpperRune(r))
			atWordStart = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
