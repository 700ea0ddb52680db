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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "pravka",
	Short: "Grammar and spelling correction with word-level diffs",
	Long: `A text-correction tool backed by pretrained sequence-to-sequence models.
English text goes to a dedicated grammar model; other languages go to a
multilingual model. The output is a word-level diff showing exactly which
words were changed.

Supported backends: Hugging Face Inference API, Ollama (LLM), Google
Translate round-trip.

Use "pravka serve" to run the web front-end,
or "pravka correct --help" for one-shot file correction.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
