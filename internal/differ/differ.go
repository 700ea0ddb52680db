// Package differ compares an original text against its corrected form at
// word granularity. Tokens are whitespace-delimited and paired purely by
// position: the i-th original token is compared with the i-th corrected
// token. There is no edit-distance alignment, so when the two texts have a
// different number of tokens the trailing tokens of the longer one are
// silently ignored. That truncation is a documented limitation, not an
// error.
//
// Both operations are pure and allocate only their return values, so they
// are safe to call from any number of concurrent requests.
package differ

import (
	"fmt"
	"strings"
)

// Highlight renders a word-level diff of original vs corrected as a single
// HTML fragment. Matching tokens pass through unchanged; a changed position
// is rendered as the original token struck through followed by the
// corrected token. Fragments are joined with single spaces, so the output
// is whitespace-normalized relative to the input.
//
// Token content is embedded into the markup as-is, without HTML escaping.
// Callers rendering untrusted input into a page must escape it themselves.
func Highlight(original, corrected string) string {
	originalTokens := strings.Fields(original)
	correctedTokens := strings.Fields(corrected)

	n := len(originalTokens)
	if len(correctedTokens) < n {
		n = len(correctedTokens)
	}

	highlighted := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if originalTokens[i] != correctedTokens[i] {
			highlighted = append(highlighted, fmt.Sprintf(
				"<del style='color:red;'>%s</del> <span style='color:green;'>%s</span>",
				originalTokens[i], correctedTokens[i]))
		} else {
			highlighted = append(highlighted, originalTokens[i])
		}
	}

	return strings.Join(highlighted, " ")
}

// Diff returns the corrected token sequence together with a map of changed
// words (original token → corrected token) built by the same positional
// pairing as Highlight.
//
// The map is keyed on the original token text: if the same word is changed
// at several positions, later positions overwrite earlier ones and only the
// last mapping survives. Callers that need per-occurrence tracking must not
// rely on this map.
func Diff(original, corrected string) ([]string, map[string]string) {
	originalTokens := strings.Fields(original)
	correctedTokens := strings.Fields(corrected)

	n := len(originalTokens)
	if len(correctedTokens) < n {
		n = len(correctedTokens)
	}

	corrections := make(map[string]string)
	for i := 0; i < n; i++ {
		if originalTokens[i] != correctedTokens[i] {
			corrections[originalTokens[i]] = correctedTokens[i]
		}
	}

	return correctedTokens, corrections
}
