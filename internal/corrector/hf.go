package corrector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultGrammarModel is the English-specific grammar correction model.
	DefaultGrammarModel = "vennify/t5-base-grammar-correction"
	// DefaultMultilingualModel corrects by regenerating the text in its own
	// language (same source and target language).
	DefaultMultilingualModel = "facebook/mbart-large-50-many-to-many-mmt"

	defaultHFBaseURL = "https://api-inference.huggingface.co"
)

// HFService corrects text through the Hugging Face Inference API using a
// hosted seq2seq model.
type HFService struct {
	name    string
	apiKey  string
	model   string
	baseURL string

	// grammarPrefix prepends the "grammar: " task prefix (T5 convention).
	grammarPrefix bool
	// langParams passes src_lang/tgt_lang generation parameters (mBART
	// convention, both set to the input language).
	langParams bool

	client *http.Client
}

// NewHFGrammarService creates the English-specific backend.
func NewHFGrammarService(apiKey, model string) *HFService {
	if model == "" {
		model = DefaultGrammarModel
	}
	return &HFService{
		name:          "hf-grammar",
		apiKey:        apiKey,
		model:         model,
		baseURL:       defaultHFBaseURL,
		grammarPrefix: true,
		client:        &http.Client{Timeout: 60 * time.Second},
	}
}

// NewHFMultilingualService creates the multilingual backend.
func NewHFMultilingualService(apiKey, model string) *HFService {
	if model == "" {
		model = DefaultMultilingualModel
	}
	return &HFService{
		name:       "hf-multilingual",
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultHFBaseURL,
		langParams: true,
		client:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *HFService) Name() string {
	return s.name
}

func (s *HFService) Correct(ctx context.Context, cfg ServiceConfig, req CorrectRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if s.apiKey == "" && cfg.APIKey == "" {
		result.Error = "Hugging Face API token required"
		return result, fmt.Errorf("Hugging Face API token required")
	}

	apiKey := s.apiKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	model := s.model
	if cfg.Model != "" {
		model = cfg.Model
	}

	input := req.Text
	if s.grammarPrefix {
		input = "grammar: " + input
	}

	hfReq := map[string]interface{}{
		"inputs": input,
	}
	if s.langParams {
		code := MBartLangCode(req.LangCode)
		hfReq["parameters"] = map[string]interface{}{
			"src_lang": code,
			"tgt_lang": code,
		}
	}

	jsonData, err := json.Marshal(hfReq)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal request: %v", err)
		return result, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/models/%s", s.baseURL, model), bytes.NewBuffer(jsonData))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		result.Error = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(body))
		return result, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var hfResp []struct {
		GeneratedText string `json:"generated_text"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&hfResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, err
	}

	if len(hfResp) == 0 || hfResp[0].GeneratedText == "" {
		result.Error = "empty correction response"
		return result, fmt.Errorf("empty correction response")
	}

	result.CorrectedText = strings.TrimSpace(hfResp[0].GeneratedText)
	result.Confidence = 1.0
	result.Metadata = map[string]string{"model": model}

	return result, nil
}

func (s *HFService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("Hugging Face API token not configured")
	}
	return nil
}

func (s *HFService) SupportedLanguages(ctx context.Context) ([]string, error) {
	if s.grammarPrefix {
		return []string{"en"}, nil
	}
	langs := make([]string, 0, len(mbartCodes))
	for iso := range mbartCodes {
		langs = append(langs, iso)
	}
	return langs, nil
}

// mbartCodes maps ISO 639-1 codes to the locale-qualified codes the
// mBART-50 tokenizer expects.
var mbartCodes = map[string]string{
	"ar": "ar_AR", "cs": "cs_CZ", "de": "de_DE", "en": "en_XX",
	"es": "es_XX", "et": "et_EE", "fi": "fi_FI", "fr": "fr_XX",
	"hi": "hi_IN", "it": "it_IT", "ja": "ja_XX", "kk": "kk_KZ",
	"ko": "ko_KR", "lt": "lt_LT", "lv": "lv_LV", "nl": "nl_XX",
	"pl": "pl_PL", "pt": "pt_XX", "ro": "ro_RO", "ru": "ru_RU",
	"sv": "sv_SE", "th": "th_TH", "tr": "tr_TR", "uk": "uk_UA",
	"vi": "vi_VN", "zh": "zh_CN", "he": "he_IL", "id": "id_ID",
	"fa": "fa_IR", "hr": "hr_HR", "sl": "sl_SI", "ta": "ta_IN",
}

// MBartLangCode converts an ISO 639-1 code to the mBART-50 form. Codes that
// already carry a locale suffix (e.g. "fr_XX") pass through unchanged, and
// unknown codes fall back to "<code>_XX".
func MBartLangCode(code string) string {
	if strings.Contains(code, "_") {
		return code
	}
	if full, ok := mbartCodes[strings.ToLower(code)]; ok {
		return full
	}
	return strings.ToLower(code) + "_XX"
}
