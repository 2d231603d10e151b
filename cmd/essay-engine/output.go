// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/essay-engine/pkg/types"
)

// outputFormat returns the configured output format.
func outputFormat() (types.OutputFormat, error) {
	f := types.OutputFormat(strings.ToLower(viper.GetString("format")))
	switch f {
	case types.OutputText, types.OutputJSON, types.OutputYAML:
		return f, nil
	case "":
		return types.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q: use text, json, or yaml", f)
	}
}

// writeOutput encodes v as JSON or YAML, or calls text for the text format.
func writeOutput(w io.Writer, format types.OutputFormat, v any, text func(io.Writer)) error {
	switch format {
	case types.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case types.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

func printEssay(w io.Writer, r *types.EssayResult) {
	fmt.Fprintf(w, "# %s\n\n", r.Topic)
	fmt.Fprintf(w, "Stance: %s (%.2f%% confidence)\n", r.Stance, r.Confidence)
	fmt.Fprintf(w, "Written by: %s | %d words | %d characters\n\n", r.GeneratedBy, r.WordCount, r.CharCount)
	fmt.Fprintln(w, r.Content)
	fmt.Fprintln(w)
	printSources(w, r.Sources)
}

func printSources(w io.Writer, sources []types.Source) {
	fmt.Fprintln(w, "Sources:")
	for i, s := range sources {
		fmt.Fprintf(w, "  %d. %s (%s)\n     %s\n", i+1, s.Title, s.Source, s.URL)
	}
}

func printClassification(w io.Writer, c classifyResult) {
	fmt.Fprintf(w, "%s\t%.2f%%\t%s\n", c.Stance, c.Confidence, c.Message)
}

func printResearch(w io.Writer, b types.ResearchBundle) {
	fmt.Fprintf(w, "Provider: %s\n\n", b.Provider)
	fmt.Fprintln(w, b.Body)
	fmt.Fprintln(w)
	printSources(w, b.Sources)
}
