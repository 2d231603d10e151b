// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the essay-engine CLI. Each pipeline
// stage is exposed as a subcommand (classify, research) alongside the full
// generate run, so stages can be exercised on their own.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/essay-engine/internal/secrets"
	"github.com/pdiddy/essay-engine/internal/stance"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ and .env at startup.
	loadedSecrets map[string]string

	logger  *zap.Logger
	verbose bool
)

// secretDefault returns fallback when it is set, otherwise the loaded secret
// for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the essay-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "essay-engine",
	Short: "Generate stance-matched essays from live research",
	Long: `essay-engine turns a topic into a short essay. It detects (or accepts) a
stance toward the topic, gathers current research from web search with an
encyclopedia fallback, and writes the essay with a hosted language model,
falling back to a deterministic template composer when no model answers.

API keys are read from .secrets/ (one file per key), from .env, or from
ESSAY_ENGINE_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		if err := secrets.LoadDotEnv(".env", s); err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}

		return initSentimentModel(loadPipelineConfig().Classifier)
	},
}

// shutdown releases the sentiment model and flushes the logger. It runs
// after every command, failed ones included.
func shutdown() error {
	err := stance.CloseModel()
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

// initSentimentModel installs the hosted sentiment model when a credential
// is available. Without one the classifier stops at its rule tiers.
func initSentimentModel(cfg types.ClassifierConfig) error {
	if secrets.IsPlaceholder(cfg.APIKey) {
		logger.Debug("sentiment model disabled: no inference API key")
		return nil
	}
	return stance.InitModel(stance.NewHuggingFaceModel(cfg, logger))
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./essay-engine.yaml or ~/.config/essay-engine/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("format", string(types.OutputText), "output format: text, json, or yaml")
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))

	setDefaults()
}

// setDefaults registers every configuration key so that ESSAY_ENGINE_*
// environment variables are picked up by Unmarshal.
func setDefaults() {
	viper.SetDefault("format", string(types.OutputText))
	viper.SetDefault("concurrency", 2)

	viper.SetDefault("classifier.model", stance.DefaultModel)
	viper.SetDefault("classifier.api_key", "")
	viper.SetDefault("classifier.timeout", "20s")
	viper.SetDefault("classifier.user_agent", "essay-engine/"+version)

	viper.SetDefault("research.search_timeout", "15s")
	viper.SetDefault("research.encyclopedia_timeout", "5s")
	viper.SetDefault("research.user_agent", "essay-engine/"+version)
	viper.SetDefault("research.tavily_api_key", "")
	viper.SetDefault("research.max_results", 5)

	viper.SetDefault("generation.provider", string(types.ProviderOpenAI))
	viper.SetDefault("generation.model", "")
	viper.SetDefault("generation.api_key", "")
	viper.SetDefault("generation.timeout", "30s")
	viper.SetDefault("generation.temperature", 0.7)
	viper.SetDefault("generation.max_tokens", 2000)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("essay-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "essay-engine"))
		}
	}

	viper.SetEnvPrefix("ESSAY_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadPipelineConfig reads the pipeline configuration from viper and fills
// API keys that are not configured from the loaded secrets.
func loadPipelineConfig() types.PipelineConfig {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil && logger != nil {
		logger.Warn("invalid configuration, using defaults", zap.Error(err))
	}

	cfg.Classifier.APIKey = secretDefault(secrets.HuggingFaceKey, cfg.Classifier.APIKey)
	cfg.Research.TavilyAPIKey = secretDefault(secrets.TavilyKey, cfg.Research.TavilyAPIKey)

	genKey := secrets.OpenAIKey
	if cfg.Generation.Provider == types.ProviderGemini {
		genKey = secrets.GeminiKey
	}
	cfg.Generation.APIKey = secretDefault(genKey, cfg.Generation.APIKey)
	return cfg
}

func main() {
	err := rootCmd.Execute()
	if cerr := shutdown(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
