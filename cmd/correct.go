/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/valpere/pravka/internal"
	"github.com/valpere/pravka/internal/arbiter"
	"github.com/valpere/pravka/internal/corrector"
	"github.com/valpere/pravka/internal/detector"
	"github.com/valpere/pravka/internal/differ"
	"github.com/valpere/pravka/internal/markdown"
	"github.com/valpere/pravka/internal/orchestrator"
	"github.com/valpere/pravka/internal/refiner"
	"github.com/valpere/pravka/internal/store"
)

var (
	inputFile  string
	outputFile string
	langCode   string

	services     []string
	useArbiter   bool
	arbiterModel string
	arbiterURL   string

	hfToken        string
	hfGrammarModel string
	hfMultiModel   string
	ollamaURL      string
	ollamaModels   []string
	pivotLang      string
	credentials    string
	projectID      string

	dbPath     string
	noCache    bool
	maxRetries int

	useRefine    bool
	refinerModel string
	refinerURL   string

	stripMarkdown bool
	showDiff      bool
)

var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Correct the text of a file",
	Long: `Correct grammar, spelling, and punctuation in a file using one or more
correction backends in parallel.

Available services:
  - hf          Hugging Face Inference API (grammar model for English,
                multilingual model otherwise)
  - ollama      Ollama LLM (self-hosted)
  - roundtrip   Google Translate out-and-back (requires credentials)

Use multiple services: --services hf,ollama

Two-pass correction:
  --refine      Enable a second fluency-polish pass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		text := string(raw)
		if stripMarkdown || strings.HasSuffix(inputFile, ".md") {
			text = markdown.ToPlainText(raw)
		}

		ctx := context.Background()

		// Auto-detect language when not specified
		if langCode == "auto" {
			det := detector.New()
			if detected, ok := det.DetectISO(text); ok {
				langCode = strings.ToLower(detected)
				fmt.Fprintf(os.Stderr, "Detected language: %s\n", langCode)
			} else {
				langCode = "en"
			}
		}

		var db *store.Store
		if !noCache && dbPath != "" {
			db, err = store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if cached, found, cacheErr := db.GetCachedCorrection(ctx, text, langCode); cacheErr == nil && found {
				fmt.Fprintf(os.Stderr, "Using cached correction\n")
				return writeOutput(text, cached, langCode, true)
			}
		}

		cfg := corrector.ServiceConfig{
			APIKey:      hfToken,
			Credentials: credentials,
			ProjectID:   projectID,
		}

		serviceList, err := buildServices(services, hfToken, hfGrammarModel, hfMultiModel, ollamaURL, pivotLang, ollamaModels)
		if err != nil {
			return err
		}

		orch := orchestrator.New(serviceList, orchestrator.OrchestratorConfig{
			Timeout:     60 * time.Second,
			MaxAttempts: maxRetries,
		})

		req := corrector.CorrectRequest{
			Text:     text,
			LangCode: langCode,
		}

		// Stage 1: parallel correction
		result := orch.Execute(ctx, cfg, req)

		if result.Succeeded == 0 {
			return fmt.Errorf("all correction services failed")
		}

		var draftText string
		var selectedService string
		var isComposite bool
		var arbiterReasoning string

		if useArbiter && len(result.Results) > 1 {
			arb := arbiter.NewOllamaArbiter(arbiterModel, arbiterURL)
			evalResult, err := arb.Evaluate(ctx, text, langCode, result.Results)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Arbiter failed: %v, using first result\n", err)
				draftText = result.Results[0].CorrectedText
				selectedService = result.Results[0].ServiceName
			} else {
				draftText = evalResult.CompositeText
				selectedService = evalResult.SelectedService
				isComposite = evalResult.IsComposite
				arbiterReasoning = evalResult.Reasoning
				fmt.Fprintf(os.Stderr, "Arbiter selected: %s\n", evalResult.SelectedService)
			}
		} else {
			draftText = result.Results[0].CorrectedText
			selectedService = result.Results[0].ServiceName
		}

		// Stage 2: optional fluency-polish pass
		finalText := draftText
		if useRefine {
			fmt.Fprintf(os.Stderr, "Running fluency refinement...\n")
			ref := refiner.NewOllamaRefiner(refinerModel, refinerURL)
			refined, err := ref.Refine(ctx, langCode, text, draftText)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Refiner failed: %v, using draft\n", err)
			} else {
				finalText = refined
				fmt.Fprintf(os.Stderr, "Refinement complete\n")
			}
		}

		if db != nil && !noCache {
			reqID := uuid.New().String()
			memReq := internal.CorrectionRequest{
				ID:         reqID,
				SourceText: text,
				LangCode:   langCode,
				Timestamp:  time.Now(),
			}
			_ = db.SaveRequest(ctx, memReq)

			for _, r := range result.Results {
				_ = db.SaveResult(ctx, reqID, r.ServiceName, r.CorrectedText, r.Confidence, int(r.Latency.Milliseconds()), r.Error)
			}

			_ = db.SaveFinalCorrection(ctx, reqID, selectedService, finalText, isComposite, arbiterReasoning)
			_ = db.SaveToMemory(ctx, text, langCode, finalText, draftText, selectedService)
			if useRefine {
				_ = db.SaveDraft(ctx, text, langCode, draftText, selectedService)
			}
		}

		if err := writeOutput(text, finalText, langCode, false); err != nil {
			return err
		}
		fmt.Printf("Services used: %d/%d\n", result.Succeeded, len(services))
		if useRefine {
			fmt.Printf("Fluency refinement applied\n")
		}
		return nil
	},
}

// writeOutput writes the corrected text to the output file and, unless
// suppressed, prints the word-level change map.
func writeOutput(original, corrected, lang string, fromCache bool) error {
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, []byte(corrected), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if fromCache {
		fmt.Printf("Successfully corrected %s text (from cache)\n", lang)
	} else {
		fmt.Printf("Successfully corrected %s text\n", lang)
	}

	if showDiff {
		_, changes := differ.Diff(original, corrected)
		if len(changes) == 0 {
			fmt.Println("No word-level changes.")
		} else {
			fmt.Printf("Changed words (%d):\n", len(changes))
			for from, to := range changes {
				fmt.Printf("  %s → %s\n", from, to)
			}
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(correctCmd)

	correctCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to correct (required)")
	correctCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the corrected text (required)")
	correctCmd.Flags().StringVarP(&langCode, "lang", "l", "auto", "Language code of the text (auto = detect)")

	correctCmd.Flags().StringSliceVar(&services, "services", []string{"hf"}, "Correction services to use (comma-separated)")
	correctCmd.Flags().BoolVar(&useArbiter, "arbiter", false, "Use LLM arbiter to select best correction")
	correctCmd.Flags().StringVar(&arbiterModel, "arbiter-model", "llama3.2", "Arbiter model name")
	correctCmd.Flags().StringVar(&arbiterURL, "arbiter-url", "http://localhost:11434", "Arbiter Ollama URL")

	correctCmd.Flags().BoolVar(&useRefine, "refine", false, "Enable second fluency-polish pass")
	correctCmd.Flags().StringVar(&refinerModel, "refiner-model", "llama3.2", "Refiner model name")
	correctCmd.Flags().StringVar(&refinerURL, "refiner-url", "http://localhost:11434", "Refiner Ollama URL")

	correctCmd.Flags().StringVar(&hfToken, "hf-token", "", "Hugging Face API token")
	correctCmd.Flags().StringVar(&hfGrammarModel, "hf-grammar-model", "", "English grammar model (default used if empty)")
	correctCmd.Flags().StringVar(&hfMultiModel, "hf-multilingual-model", "", "Multilingual model (default used if empty)")
	correctCmd.Flags().StringVar(&ollamaURL, "ollama-url", "http://localhost:11434", "Ollama base URL")
	correctCmd.Flags().StringSliceVar(&ollamaModels, "ollama-models", nil, "Ollama models to rotate (default list used if empty)")
	correctCmd.Flags().StringVar(&pivotLang, "pivot-lang", "", "Pivot language for the round-trip backend")
	correctCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Path to Google Cloud credentials (round-trip backend)")
	correctCmd.Flags().StringVarP(&projectID, "project", "p", "", "Google Cloud Project ID (round-trip backend)")

	correctCmd.Flags().StringVar(&dbPath, "db", "./data/pravka.db", "Database path for correction memory")
	correctCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable correction memory cache")
	correctCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "Total attempts per service including the first (1 = no retries)")

	correctCmd.Flags().BoolVar(&stripMarkdown, "strip-markdown", false, "Strip markdown before correcting (automatic for .md files)")
	correctCmd.Flags().BoolVar(&showDiff, "diff", true, "Print the word-level change map")

	correctCmd.MarkFlagRequired("input")
	correctCmd.MarkFlagRequired("output")
}
