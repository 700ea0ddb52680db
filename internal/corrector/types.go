package corrector

import (
	"context"
	"time"
)

type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
}

type CorrectRequest struct {
	Text     string `json:"text"`
	LangCode string `json:"lang_code"`
}

type ServiceResult struct {
	ServiceName   string            `json:"service_name"`
	CorrectedText string            `json:"corrected_text"`
	Confidence    float64           `json:"confidence"`
	Metadata      map[string]string `json:"metadata"`
	Latency       time.Duration     `json:"latency"`
	Error         string            `json:"error,omitempty"`
}

// CorrectionService is the correction oracle: given a text and its language
// code it returns a corrected version of the text. Implementations must not
// translate; the output stays in the input language.
type CorrectionService interface {
	Name() string
	Correct(ctx context.Context, cfg ServiceConfig, req CorrectRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}
