package corrector

import (
	"context"
	"fmt"
	"strings"
)

// Router dispatches correction requests to one of two backends: the
// English-specific service for "en", the multilingual service for everything
// else. It implements CorrectionService itself so callers never see the
// split.
type Router struct {
	english      CorrectionService
	multilingual CorrectionService
}

func NewRouter(english, multilingual CorrectionService) *Router {
	return &Router{english: english, multilingual: multilingual}
}

func (r *Router) Name() string {
	return "router"
}

// pick returns the backend for a language code. mBART-style codes like
// "en_XX" count as English too.
func (r *Router) pick(langCode string) CorrectionService {
	code := strings.ToLower(langCode)
	if code == "en" || strings.HasPrefix(code, "en_") {
		return r.english
	}
	return r.multilingual
}

func (r *Router) Correct(ctx context.Context, cfg ServiceConfig, req CorrectRequest) (*ServiceResult, error) {
	svc := r.pick(req.LangCode)
	if svc == nil {
		result := &ServiceResult{ServiceName: r.Name()}
		result.Error = fmt.Sprintf("no backend configured for language %q", req.LangCode)
		return result, fmt.Errorf("no backend configured for language %q", req.LangCode)
	}
	return svc.Correct(ctx, cfg, req)
}

func (r *Router) IsAvailable(ctx context.Context) error {
	if r.english == nil && r.multilingual == nil {
		return fmt.Errorf("no backends configured")
	}
	if r.english != nil {
		if err := r.english.IsAvailable(ctx); err != nil {
			return fmt.Errorf("english backend: %w", err)
		}
	}
	if r.multilingual != nil {
		if err := r.multilingual.IsAvailable(ctx); err != nil {
			return fmt.Errorf("multilingual backend: %w", err)
		}
	}
	return nil
}

func (r *Router) SupportedLanguages(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var langs []string
	for _, svc := range []CorrectionService{r.english, r.multilingual} {
		if svc == nil {
			continue
		}
		ls, err := svc.SupportedLanguages(ctx)
		if err != nil {
			return nil, err
		}
		for _, l := range ls {
			if !seen[l] {
				seen[l] = true
				langs = append(langs, l)
			}
		}
	}
	return langs, nil
}
