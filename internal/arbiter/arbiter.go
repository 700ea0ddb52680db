// Package arbiter selects the best candidate among competing corrections
// of the same source text, optionally composing an improved one.
package arbiter

import (
	"context"

	"github.com/valpere/pravka/internal/corrector"
)

type EvaluationResult struct {
	SelectedService string
	CompositeText   string
	IsComposite     bool
	Reasoning       string
}

type Arbiter interface {
	Evaluate(ctx context.Context, source string, langCode string, results []corrector.ServiceResult) (*EvaluationResult, error)
}
