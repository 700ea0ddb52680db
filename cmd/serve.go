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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/pravka/internal/corrector"
	"github.com/valpere/pravka/internal/dict"
	"github.com/valpere/pravka/internal/server"
	"github.com/valpere/pravka/internal/store"
)

var serveConfigFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the correction web server",
	Long: `Run the HTTP front-end: an HTML form at /, a JSON API at /api, and
the protected-word dictionary endpoints under /api/v1/dict.

Configuration is read from flags, environment variables (PRAVKA_*), and an
optional config file, in that order of precedence.

Examples:
  pravka serve --port 8080 --hf-token $HF_TOKEN
  PRAVKA_HF_TOKEN=... pravka serve --config pravka.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		v.SetEnvPrefix("PRAVKA")
		v.AutomaticEnv()

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}

		if serveConfigFile != "" {
			v.SetConfigFile(serveConfigFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(v.GetString("log-level")),
		}))

		oracle := buildHFRouter(
			v.GetString("hf-token"),
			v.GetString("hf-grammar-model"),
			v.GetString("hf-multilingual-model"),
		)

		cfg := server.Config{
			Oracle: oracle,
			ServiceCfg: corrector.ServiceConfig{
				APIKey: v.GetString("hf-token"),
			},
			Port:   v.GetInt("port"),
			Logger: logger,
		}

		if dbPath := v.GetString("db"); dbPath != "" {
			db, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			cfg.Store = db
		}

		if redisAddr := v.GetString("redis-addr"); redisAddr != "" {
			client := redis.NewClient(&redis.Options{
				Addr:     redisAddr,
				Password: v.GetString("redis-password"),
				DB:       v.GetInt("redis-db"),
			})
			d := dict.New(client)
			if err := d.Ping(cmd.Context()); err != nil {
				logger.Warn("Redis unavailable, protected-word dictionary disabled", "addr", redisAddr, "error", err)
			} else {
				cfg.Dict = d
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.NewServer(cfg).Serve(ctx)
	},
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigFile, "config", "", "Config file (yaml/json/toml)")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	serveCmd.Flags().String("hf-token", "", "Hugging Face API token")
	serveCmd.Flags().String("hf-grammar-model", "", "English grammar model (default used if empty)")
	serveCmd.Flags().String("hf-multilingual-model", "", "Multilingual model (default used if empty)")

	serveCmd.Flags().String("db", "./data/pravka.db", "Database path for correction memory (empty disables)")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the protected-word dictionary (empty disables)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
}
