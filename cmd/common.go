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
	"fmt"
	"os"

	"github.com/valpere/pravka/internal/corrector"
)

// buildServices constructs the list of correction services from CLI
// parameters. ollamaModels may be nil to use the defaults.
func buildServices(serviceNames []string, hfToken, hfGrammarModel, hfMultiModel, ollamaBaseURL, pivotLang string, ollamaModels []string) ([]corrector.CorrectionService, error) {
	var list []corrector.CorrectionService

	for _, name := range serviceNames {
		switch name {
		case "hf", "huggingface":
			list = append(list, buildHFRouter(hfToken, hfGrammarModel, hfMultiModel))
		case "ollama":
			list = append(list, corrector.NewOllamaService(ollamaBaseURL, ollamaModels))
		case "roundtrip":
			list = append(list, corrector.NewRoundTripService(pivotLang))
		default:
			fmt.Fprintf(os.Stderr, "Unknown service: %s, skipping\n", name)
		}
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no valid services configured")
	}
	return list, nil
}

// buildHFRouter wires the English grammar model and the multilingual model
// behind the language-code router.
func buildHFRouter(hfToken, grammarModel, multiModel string) *corrector.Router {
	return corrector.NewRouter(
		corrector.NewHFGrammarService(hfToken, grammarModel),
		corrector.NewHFMultilingualService(hfToken, multiModel),
	)
}
