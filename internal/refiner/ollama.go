package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valpere/pravka/internal/postprocess"
)

// OllamaRefiner uses a local Ollama model as a copy editor for the second pass.
type OllamaRefiner struct {
	model   string
	baseURL string
	client  *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// NewOllamaRefiner creates a refiner backed by a local Ollama model.
func NewOllamaRefiner(model, baseURL string) *OllamaRefiner {
	return &OllamaRefiner{
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Refine sends the corrected text to the LLM with a copy-editor prompt and
// returns the polished version. On an empty model response the corrected
// text is returned unchanged.
func (r *OllamaRefiner) Refine(ctx context.Context, langCode, sourceText, correctedText string) (string, error) {
	prompt := buildRefinementPrompt(langCode, sourceText, correctedText)

	reqBody := ollamaRequest{
		Model:  r.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal refinement request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", r.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create refinement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("refinement request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refiner returned status %d", resp.StatusCode)
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode refinement response: %w", err)
	}

	refined := postprocess.Clean(ollamaResp.Response)
	if refined == "" {
		return correctedText, nil
	}
	return refined, nil
}

func buildRefinementPrompt(langCode, sourceText, correctedText string) string {
	return fmt.Sprintf(`You are an experienced %s copy editor.

# YOUR TASK: POLISH A CORRECTED TEXT

You will receive a text whose grammar, spelling, and punctuation have already
been corrected. Your job is to polish it for fluency while keeping it as close
to the corrected version as possible.

ORIGINAL TEXT (%s):
%s

CORRECTED TEXT (%s):
%s

# EDITING PRINCIPLES

**What to Fix:**
- Residual awkward phrasing → Natural expressions
- Clumsy word order → Proper syntax
- Unidiomatic collocations → Natural %s idioms

**What to Preserve:**
- The language of the text. NEVER translate it.
- All factual content and meaning
- Names and proper nouns
- Technical terms (if any)

CRITICAL: If the corrected text already reads well, return it unchanged.

Output ONLY the polished text in %s. Do not include any explanation.`,
		langCode,
		langCode, sourceText,
		langCode, correctedText,
		langCode,
		langCode,
	)
}
