// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/essay-engine/internal/pipeline"
	"github.com/pdiddy/essay-engine/internal/stance"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// minClassifyRunes is the shortest trimmed input worth classifying.
const minClassifyRunes = 3

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Detect the stance of a piece of text",
	Long: `Classify runs the stance classifier alone. Negated indicators are
checked first, then the positive and negative lexicons, then the hosted
sentiment model when an inference API key is configured. Confidence is
reported as a percentage. Text shorter than three characters is reported
as neutral with zero confidence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// classifyResult is the classify command's output record.
type classifyResult struct {
	Stance     types.Stance `json:"sentiment" yaml:"sentiment"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
	Method     string       `json:"method,omitempty" yaml:"method,omitempty"`
	Message    string       `json:"message" yaml:"message"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	c := stance.NewClassifier(stance.SharedModel(), logger)
	result := classifyText(cmd.Context(), c, strings.Join(args, " "))

	return writeOutput(os.Stdout, format, result, func(w io.Writer) {
		printClassification(w, result)
	})
}

// classifyText classifies trimmed text, short-circuiting inputs too short
// to carry a stance.
func classifyText(ctx context.Context, c pipeline.StanceClassifier, text string) classifyResult {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minClassifyRunes {
		return classifyResult{Stance: types.StanceNeutral, Message: "Type something..."}
	}
	cls := c.Classify(ctx, text)
	return classifyResult{
		Stance:     cls.Stance,
		Confidence: pipeline.Percent(cls.Confidence),
		Method:     cls.Method,
		Message:    fmt.Sprintf("%s detected", strings.ToUpper(string(cls.Stance))),
	}
}
