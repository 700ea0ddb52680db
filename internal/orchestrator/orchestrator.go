// Package orchestrator fans a correction request out to several backends in
// parallel, retries transient failures, and collects the surviving results.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/valpere/pravka/internal/corrector"
	"github.com/valpere/pravka/internal/validator"
)

type OrchestratorConfig struct {
	Timeout time.Duration
	// MaxAttempts is the total attempts per service including the first.
	MaxAttempts int
	RetryDelay  time.Duration
	// SkipValidation disables the output-language check on results.
	SkipValidation bool
}

type OrchestratorResult struct {
	Results   []corrector.ServiceResult
	Errors    []error
	Succeeded int
	Failed    int
}

type Orchestrator struct {
	services  []corrector.CorrectionService
	config    OrchestratorConfig
	validator *validator.Validator
}

func New(services []corrector.CorrectionService, config OrchestratorConfig) *Orchestrator {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 500 * time.Millisecond
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	o := &Orchestrator{
		services: services,
		config:   config,
	}
	if !config.SkipValidation {
		o.validator = validator.New()
	}
	return o
}

// Execute runs every service concurrently and gathers their results. Each
// service gets its own timeout and up to MaxAttempts tries; an attempt whose
// corrected text fails the output-language check counts as a failure and is
// retried, except on the final attempt, where the result is kept anyway (a
// suspect correction beats none).
func (o *Orchestrator) Execute(ctx context.Context, cfg corrector.ServiceConfig, req corrector.CorrectRequest) *OrchestratorResult {
	result := &OrchestratorResult{
		Results: make([]corrector.ServiceResult, 0),
		Errors:  make([]error, 0),
	}

	type serviceOutcome struct {
		res *corrector.ServiceResult
		err error
	}

	outcomes := make(chan serviceOutcome, len(o.services))

	var wg sync.WaitGroup
	for _, svc := range o.services {
		wg.Add(1)
		go func(service corrector.CorrectionService) {
			defer wg.Done()
			res, err := o.correctWithRetry(ctx, service, cfg, req)
			outcomes <- serviceOutcome{res: res, err: err}
		}(svc)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for oc := range outcomes {
		switch {
		case oc.err != nil:
			result.Errors = append(result.Errors, oc.err)
			result.Failed++
		case oc.res != nil && oc.res.Error != "":
			result.Errors = append(result.Errors, fmt.Errorf("%s: %s", oc.res.ServiceName, oc.res.Error))
			result.Failed++
		case oc.res != nil:
			result.Results = append(result.Results, *oc.res)
			result.Succeeded++
		}
	}

	return result
}

func (o *Orchestrator) correctWithRetry(ctx context.Context, service corrector.CorrectionService, cfg corrector.ServiceConfig, req corrector.CorrectRequest) (*corrector.ServiceResult, error) {
	var lastRes *corrector.ServiceResult
	var lastErr error

	for attempt := 1; attempt <= o.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return lastRes, lastErr
			case <-time.After(o.config.RetryDelay):
			}
		}

		serviceCtx, cancel := context.WithTimeout(ctx, o.config.Timeout)
		res, err := service.Correct(serviceCtx, cfg, req)
		cancel()

		lastRes, lastErr = res, err
		if err != nil || (res != nil && res.Error != "") {
			continue
		}

		if o.validator != nil && res != nil {
			if ok, verr := o.validator.IsValid(res.CorrectedText, req.LangCode); !ok && attempt < o.config.MaxAttempts {
				lastErr = fmt.Errorf("%s: output language check failed: %v", service.Name(), verr)
				continue
			}
			// Final attempt keeps the result despite a failed check: a
			// suspect correction beats none.
		}

		return res, nil
	}

	return lastRes, lastErr
}

// ExecuteBest runs Execute and returns the single result with the highest
// confidence, or nil when every service failed.
func (o *Orchestrator) ExecuteBest(ctx context.Context, cfg corrector.ServiceConfig, req corrector.CorrectRequest) *corrector.ServiceResult {
	result := o.Execute(ctx, cfg, req)

	if result.Succeeded == 0 {
		return nil
	}

	best := &result.Results[0]
	for i := 1; i < len(result.Results); i++ {
		if result.Results[i].Confidence > best.Confidence {
			best = &result.Results[i]
		}
	}
	return best
}

// ExecuteWithFallback returns the sole successful result, or nil when no
// service succeeded or more than one did (the caller then arbitrates).
func (o *Orchestrator) ExecuteWithFallback(ctx context.Context, cfg corrector.ServiceConfig, req corrector.CorrectRequest) *corrector.ServiceResult {
	result := o.Execute(ctx, cfg, req)

	if result.Succeeded == 0 {
		return nil
	}

	if result.Succeeded == 1 {
		return &result.Results[0]
	}

	return nil
}
