// Package refiner implements the optional second pass of the correction
// pipeline. It takes an already-corrected text and polishes it for fluency
// using an LLM, without changing its meaning or language.
package refiner

import "context"

// Refiner reviews a corrected text and improves its fluency.
type Refiner interface {
	Refine(ctx context.Context, langCode, sourceText, correctedText string) (string, error)
}
