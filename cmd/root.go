package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/llmgate/promptrefiner/internal/config"
	"github.com/llmgate/promptrefiner/internal/logging"
)

var version = "0.1.0"

var (
	configName string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "promptrefiner",
	Short: "Refine prompts with a language model or built-in heuristics",
	Long: `promptrefiner rewrites natural-language prompts into a clearer, structured form.

It asks the configured language model first (Gemini by default, set GEMINI_API_KEY)
and falls back to rule-based refinement when no model is configured or a call fails.

Use "promptrefiner serve" to run the web API and "promptrefiner refine" for one-off use.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	defaultConfig := os.Getenv("APP_ENV")
	if defaultConfig == "" {
		defaultConfig = "default"
	}
	rootCmd.PersistentFlags().StringVar(&configName, "config", defaultConfig, "config file name without extension, searched in . and ./config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configName)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	return cfg, nil
}
