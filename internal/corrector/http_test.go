package corrector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHFGrammarService_Correct_NoAPIKey(t *testing.T) {
	svc := NewHFGrammarService("", "")

	result, err := svc.Correct(context.Background(), ServiceConfig{}, CorrectRequest{
		Text:     "teh cat sat",
		LangCode: "en",
	})

	if err == nil {
		t.Error("expected error when no API token")
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestHFGrammarService_Correct_Success(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		resp := []map[string]interface{}{
			{"generated_text": "the cat sat"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := &HFService{
		name:          "hf-grammar",
		apiKey:        "test-token",
		model:         DefaultGrammarModel,
		baseURL:       server.URL,
		grammarPrefix: true,
		client:        server.Client(),
	}

	result, err := svc.Correct(context.Background(), ServiceConfig{}, CorrectRequest{
		Text:     "teh cat sat",
		LangCode: "en",
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result.CorrectedText != "the cat sat" {
		t.Errorf("expected corrected text, got %q", result.CorrectedText)
	}
	if gotBody["inputs"] != "grammar: teh cat sat" {
		t.Errorf("expected grammar task prefix, got %v", gotBody["inputs"])
	}
	if result.Latency <= 0 {
		t.Error("expected positive latency")
	}
}

func TestHFMultilingualService_Correct_LangParams(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		resp := []map[string]interface{}{
			{"generated_text": "Привіт, світе"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := &HFService{
		name:       "hf-multilingual",
		apiKey:     "test-token",
		model:      DefaultMultilingualModel,
		baseURL:    server.URL,
		langParams: true,
		client:     server.Client(),
	}

	result, err := svc.Correct(context.Background(), ServiceConfig{}, CorrectRequest{
		Text:     "Привит, свите",
		LangCode: "uk",
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result.CorrectedText == "" {
		t.Error("expected non-empty corrected text")
	}

	params, ok := gotBody["parameters"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected parameters in request, got %v", gotBody)
	}
	if params["src_lang"] != "uk_UA" || params["tgt_lang"] != "uk_UA" {
		t.Errorf("expected uk_UA src/tgt, got %v", params)
	}
}

func TestHFService_Correct_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("model loading"))
	}))
	defer server.Close()

	svc := &HFService{
		name:    "hf-grammar",
		apiKey:  "test-token",
		baseURL: server.URL,
		client:  server.Client(),
	}

	result, err := svc.Correct(context.Background(), ServiceConfig{}, CorrectRequest{
		Text:     "hello",
		LangCode: "en",
	})

	if err == nil {
		t.Error("expected error for non-OK status")
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestHFService_Correct_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer server.Close()

	svc := &HFService{
		name:    "hf-grammar",
		apiKey:  "test-token",
		baseURL: server.URL,
		client:  server.Client(),
	}

	_, err := svc.Correct(context.Background(), ServiceConfig{}, CorrectRequest{
		Text:     "hello",
		LangCode: "en",
	})
	if err == nil {
		t.Error("expected error for empty response")
	}
}

func TestHFService_IsAvailable(t *testing.T) {
	if err := NewHFGrammarService("", "").IsAvailable(context.Background()); err == nil {
		t.Error("expected error without API token")
	}
	if err := NewHFGrammarService("tok", "").IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHFService_SupportedLanguages(t *testing.T) {
	langs, err := NewHFGrammarService("tok", "").SupportedLanguages(context.Background())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(langs) != 1 || langs[0] != "en" {
		t.Errorf("expected [en], got %v", langs)
	}

	langs, err = NewHFMultilingualService("tok", "").SupportedLanguages(context.Background())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(langs) == 0 {
		t.Error("expected non-empty language list")
	}
}

func TestMBartLangCode(t *testing.T) {
	cases := map[string]string{
		"en":    "en_XX",
		"uk":    "uk_UA",
		"FR":    "fr_XX",
		"fr_XX": "fr_XX",
		"xx":    "xx_XX",
	}
	for in, want := range cases {
		if got := MBartLangCode(in); got != want {
			t.Errorf("MBartLangCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOllamaService_Correct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"response": "The cat sat.",
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := &OllamaService{
		baseURL: server.URL,
		models:  []string{"llama3.2"},
		client:  server.Client(),
	}

	result, err := svc.Correct(context.Background(), ServiceConfig{}, CorrectRequest{
		Text:     "teh cat sat",
		LangCode: "en",
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.CorrectedText != "The cat sat." {
		t.Errorf("expected corrected text, got %q", result.CorrectedText)
	}
}

func TestOllamaService_Correct_StripsArtifacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"response": "<think>fix teh</think>\"The cat sat.\"",
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := &OllamaService{
		baseURL: server.URL,
		models:  []string{"llama3.2"},
		client:  server.Client(),
	}

	result, err := svc.Correct(context.Background(), ServiceConfig{}, CorrectRequest{
		Text:     "teh cat sat",
		LangCode: "en",
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result.CorrectedText != "The cat sat." {
		t.Errorf("expected cleaned text, got %q", result.CorrectedText)
	}
}

func TestOllamaService_Correct_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := &OllamaService{
		baseURL: server.URL,
		models:  []string{"llama3.2"},
		client:  server.Client(),
	}

	_, err := svc.Correct(context.Background(), ServiceConfig{}, CorrectRequest{
		Text:     "hello",
		LangCode: "en",
	})
	if err == nil {
		t.Error("expected error for non-OK status")
	}
}

func TestOllamaService_Defaults(t *testing.T) {
	svc := NewOllamaService("", nil)

	if svc.baseURL != "http://localhost:11434" {
		t.Errorf("unexpected default base URL: %q", svc.baseURL)
	}
	if len(svc.GetModels()) == 0 {
		t.Error("expected default model list")
	}
	if svc.Name() != "ollama" {
		t.Errorf("expected 'ollama', got %q", svc.Name())
	}
}

func TestOllamaService_SetModels(t *testing.T) {
	svc := NewOllamaService("", nil)
	svc.SetModels([]string{"custom"})
	if len(svc.GetModels()) != 1 || svc.GetModels()[0] != "custom" {
		t.Errorf("expected custom model list, got %v", svc.GetModels())
	}

	svc.SetModels(nil)
	if len(svc.GetModels()) != 1 {
		t.Error("empty SetModels should keep existing list")
	}
}

func TestOllamaService_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := &OllamaService{
		baseURL: server.URL,
		models:  []string{"llama3.2"},
		client:  server.Client(),
	}

	if err := svc.IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	server.Close()
	svc.client = &http.Client{Timeout: time.Second}
	if err := svc.IsAvailable(context.Background()); err == nil {
		t.Error("expected error for closed server")
	}
}
