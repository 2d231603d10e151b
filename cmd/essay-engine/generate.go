// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/essay-engine/internal/pipeline"
	"github.com/pdiddy/essay-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topics...]",
	Short: "Generate an essay for one or more topics",
	Long: `Generate runs the full pipeline for each topic: stance detection (unless
--stance fixes it), research retrieval, and essay composition. Several topics
run concurrently, and results are printed in the order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("stance", string(types.StanceAuto), "essay stance: auto, positive, negative, or neutral")
	generateCmd.Flags().Int("min-length", 300, "minimum essay length in words")
	generateCmd.Flags().Int("max-length", 600, "maximum essay length in words")
	generateCmd.Flags().String("provider", "", "generation provider: openai or gemini")
	generateCmd.Flags().String("model", "", "generation model identifier")
	generateCmd.Flags().Int("concurrency", 0, "maximum topics generated in parallel (default 2)")

	_ = viper.BindPFlag("generation.provider", generateCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("generation.model", generateCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("concurrency", generateCmd.Flags().Lookup("concurrency"))

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	stanceName, _ := cmd.Flags().GetString("stance")
	minLength, _ := cmd.Flags().GetInt("min-length")
	maxLength, _ := cmd.Flags().GetInt("max-length")

	p, err := pipeline.NewFromConfig(loadPipelineConfig(), logger)
	if err != nil {
		return err
	}

	reqs := make([]pipeline.Request, len(args))
	for i, topic := range args {
		reqs[i] = pipeline.Request{
			Topic:     topic,
			Stance:    types.Stance(stanceName),
			MinLength: minLength,
			MaxLength: maxLength,
		}
	}

	results, err := p.RunBatch(cmd.Context(), reqs)
	if err != nil {
		return err
	}
	return writeEssays(os.Stdout, format, results)
}

const essaySeparator = "========================================"

// writeEssays prints a single result as an object and several as a list.
func writeEssays(w io.Writer, format types.OutputFormat, results []*types.EssayResult) error {
	var v any = results
	if len(results) == 1 {
		v = results[0]
	}
	return writeOutput(w, format, v, func(w io.Writer) {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w, "\n"+essaySeparator)
				fmt.Fprintln(w)
			}
			printEssay(w, r)
		}
	})
}
