// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/essay-engine/internal/research"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic...]",
	Short: "Retrieve research text and sources for a topic",
	Long: `Research runs the retrieval cascade alone: Tavily web search, then the
Wikipedia page summary, then a placeholder. The command always succeeds; the
provider field shows which tier answered.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Int("max-results", 0, "number of web search results (default 5)")
	_ = viper.BindPFlag("research.max_results", researchCmd.Flags().Lookup("max-results"))

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	cfg := loadPipelineConfig()
	r := research.NewDefaultRetriever(cfg.Research, logger)
	bundle := r.Retrieve(cmd.Context(), strings.Join(args, " "))

	return writeOutput(os.Stdout, format, bundle, func(w io.Writer) {
		printResearch(w, bundle)
	})
}
