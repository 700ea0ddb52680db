package corrector

import (
	"context"
	"fmt"
	"os"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// DefaultPivotLang is the intermediate language used by the round-trip
// backend when the input is not already English.
const DefaultPivotLang = "en"

// RoundTripService corrects text by translating it into a pivot language and
// back with Google Translate. The round trip tends to regularize grammar and
// word order, which makes it a usable fallback for languages that have no
// dedicated correction model. It is lossier than a real grammar model, hence
// the reduced confidence.
type RoundTripService struct {
	pivot string
}

func NewRoundTripService(pivot string) *RoundTripService {
	if pivot == "" {
		pivot = DefaultPivotLang
	}
	return &RoundTripService{pivot: pivot}
}

func (s *RoundTripService) Name() string {
	return "roundtrip"
}

func (s *RoundTripService) Correct(ctx context.Context, cfg ServiceConfig, req CorrectRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if cfg.Credentials != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cfg.Credentials)
	}

	srcTag, err := language.Parse(req.LangCode)
	if err != nil {
		result.Error = fmt.Sprintf("invalid language code: %v", err)
		return result, fmt.Errorf("invalid language code: %v", err)
	}

	pivot := s.pivot
	if pivot == req.LangCode {
		// Same-language round trip is a no-op; pivot through English's
		// closest large neighbour instead.
		pivot = "fr"
	}
	pivotTag, err := language.Parse(pivot)
	if err != nil {
		result.Error = fmt.Sprintf("invalid pivot language: %v", err)
		return result, fmt.Errorf("invalid pivot language: %v", err)
	}

	opts := []option.ClientOption{}
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create client: %v", err)
		return result, fmt.Errorf("failed to create client: %v", err)
	}
	defer client.Close()

	// Out: source language → pivot.
	out, err := client.Translate(ctx, []string{req.Text}, pivotTag, &translate.Options{Source: srcTag})
	if err != nil {
		result.Error = fmt.Sprintf("outbound translation failed: %v", err)
		return result, fmt.Errorf("outbound translation failed: %v", err)
	}
	if len(out) == 0 {
		result.Error = "no translation returned"
		return result, fmt.Errorf("no translation returned")
	}

	// Back: pivot → source language.
	back, err := client.Translate(ctx, []string{out[0].Text}, srcTag, &translate.Options{Source: pivotTag})
	if err != nil {
		result.Error = fmt.Sprintf("return translation failed: %v", err)
		return result, fmt.Errorf("return translation failed: %v", err)
	}
	if len(back) == 0 {
		result.Error = "no translation returned"
		return result, fmt.Errorf("no translation returned")
	}

	result.CorrectedText = back[0].Text
	result.Confidence = 0.5
	result.Metadata = map[string]string{"pivot": pivot}

	return result, nil
}

func (s *RoundTripService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *RoundTripService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return nil, nil
}
