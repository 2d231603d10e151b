// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/essay-engine/internal/secrets"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// healthReport summarizes which external services have credentials. It
// makes no network calls.
type healthReport struct {
	Status      string            `json:"status" yaml:"status"`
	Version     string            `json:"version" yaml:"version"`
	Generator   string            `json:"generator" yaml:"generator"`
	Credentials []credentialState `json:"credentials" yaml:"credentials"`
}

type credentialState struct {
	Service    string `json:"service" yaml:"service"`
	Configured bool   `json:"configured" yaml:"configured"`
	Fallback   string `json:"fallback" yaml:"fallback"`
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report which API credentials are configured",
	Long: `Health lists each external service and whether a usable (non-placeholder)
credential is configured for it. Missing credentials are not errors: each
stage names the fallback it will use instead.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	report := buildHealthReport(loadPipelineConfig())
	return writeOutput(os.Stdout, format, report, func(w io.Writer) {
		fmt.Fprintf(w, "essay-engine %s: %s (generator: %s)\n", report.Version, report.Status, report.Generator)
		for _, c := range report.Credentials {
			state := "configured"
			if !c.Configured {
				state = "not configured, falls back to " + c.Fallback
			}
			fmt.Fprintf(w, "  %-12s %s\n", c.Service, state)
		}
	})
}

func buildHealthReport(cfg types.PipelineConfig) healthReport {
	provider := cfg.Generation.Provider
	if provider == "" {
		provider = types.ProviderOpenAI
	}
	return healthReport{
		Status:    "healthy",
		Version:   version,
		Generator: string(provider),
		Credentials: []credentialState{
			{Service: "tavily", Configured: !secrets.IsPlaceholder(cfg.Research.TavilyAPIKey), Fallback: "wikipedia"},
			{Service: string(provider), Configured: !secrets.IsPlaceholder(cfg.Generation.APIKey), Fallback: "template composer"},
			{Service: "huggingface", Configured: !secrets.IsPlaceholder(cfg.Classifier.APIKey), Fallback: "rule tiers"},
		},
	}
}
