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
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/valpere/pravka/internal/dict"
)

var (
	dictRedisAddr     string
	dictRedisPassword string
	dictRedisDB       int
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage the protected-word dictionary",
	Long: `Add, list, and remove protected words.

Protected words are never changed by a correction: if a backend rewrites
one (a name, a brand, deliberate slang), the original word is restored in
the corrected text. The dictionary lives in Redis so the web server and
the CLI share it.`,
}

func openDict() (*dict.Dict, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     dictRedisAddr,
		Password: dictRedisPassword,
		DB:       dictRedisDB,
	})
	d := dict.New(client)
	if err := d.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", dictRedisAddr, err)
	}
	return d, nil
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all protected words",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDict()
		if err != nil {
			return err
		}

		words, err := d.All(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list protected words: %w", err)
		}

		if len(words) == 0 {
			fmt.Println("Dictionary is empty.")
			return nil
		}

		sort.Strings(words)
		for _, w := range words {
			fmt.Println(w)
		}
		return nil
	},
}

var dictAddCmd = &cobra.Command{
	Use:   "add <word>...",
	Short: "Add one or more protected words",
	Long: `Add words that corrections must never change.

Example:
  pravka dict add Kyiv GoLang`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDict()
		if err != nil {
			return err
		}

		for _, word := range args {
			if err := d.Add(context.Background(), word); err != nil {
				return fmt.Errorf("failed to add %q: %w", word, err)
			}
			fmt.Printf("Added: %s\n", word)
		}
		return nil
	},
}

var dictRemoveCmd = &cobra.Command{
	Use:   "remove <word>...",
	Short: "Remove one or more protected words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDict()
		if err != nil {
			return err
		}

		for _, word := range args {
			if err := d.Remove(context.Background(), word); err != nil {
				return fmt.Errorf("failed to remove %q: %w", word, err)
			}
			fmt.Printf("Removed: %s\n", word)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dictCmd)

	dictCmd.PersistentFlags().StringVar(&dictRedisAddr, "redis-addr", "localhost:6379", "Redis address")
	dictCmd.PersistentFlags().StringVar(&dictRedisPassword, "redis-password", "", "Redis password")
	dictCmd.PersistentFlags().IntVar(&dictRedisDB, "redis-db", 0, "Redis database number")

	dictCmd.AddCommand(dictListCmd)
	dictCmd.AddCommand(dictAddCmd)
	dictCmd.AddCommand(dictRemoveCmd)
}
