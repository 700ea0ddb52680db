// Package validator checks that a correction result stayed in the input language.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/pravka/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// Validator checks that a corrected text is still written in the language of
// the original — a correction backend must never translate. The underlying
// language detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// IsValid returns true when correctedText appears to be written in langCode.
//
// Short texts (fewer than minValidationLength runes) and texts whose language
// cannot be determined pass without error. When the detected language differs
// from langCode the returned error names both codes.
func (v *Validator) IsValid(correctedText, langCode string) (bool, error) {
	if langCode == "" || langCode == "auto" {
		return true, nil
	}

	text := strings.TrimSpace(correctedText)
	if text == "" {
		return false, fmt.Errorf("correction is empty")
	}

	// Detector is unreliable for very short texts; skip validation.
	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		// Ambiguous language — cannot validate, pass through.
		return true, nil
	}

	// mBART-style codes carry a locale suffix; compare the ISO prefix only.
	want := langCode
	if i := strings.Index(want, "_"); i > 0 {
		want = want[:i]
	}

	if !strings.EqualFold(detected, want) {
		return false, fmt.Errorf("expected %s but detected %s", want, detected)
	}

	return true, nil
}
