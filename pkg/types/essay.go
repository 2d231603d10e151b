// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the essay-engine pipeline:
// stances, research bundles with their sources, and the assembled essay
// result returned to callers.
package types

import (
	"fmt"
	"strings"
)

// Stance is the emotional disposition an essay adopts.
type Stance string

const (
	StancePositive Stance = "positive"
	StanceNegative Stance = "negative"
	StanceNeutral  Stance = "neutral"

	// StanceAuto asks the pipeline to classify the topic instead of using a
	// caller-supplied stance. It is never the stance of a result.
	StanceAuto Stance = "auto"
)

// ParseStance maps a case-insensitive name to a Stance. The empty string
// parses as StanceAuto.
func ParseStance(s string) (Stance, error) {
	switch Stance(strings.ToLower(strings.TrimSpace(s))) {
	case "", StanceAuto:
		return StanceAuto, nil
	case StancePositive:
		return StancePositive, nil
	case StanceNegative:
		return StanceNegative, nil
	case StanceNeutral:
		return StanceNeutral, nil
	default:
		return "", fmt.Errorf("unknown stance %q: use auto, positive, negative, or neutral", s)
	}
}

// Classification is the outcome of stance detection on a span of text.
type Classification struct {
	Stance Stance `json:"stance" yaml:"stance"`

	// Confidence is in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Method names the rule that decided the stance: "negation", "lexicon",
	// "model", "fallback", or "empty". A caller-supplied stance is recorded
	// as "requested".
	Method string `json:"method" yaml:"method"`
}

// Source attributes a piece of research text to where it came from.
type Source struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`

	// Source is a short provider or domain label (e.g. "example.com", "Wikipedia").
	Source string `json:"source" yaml:"source"`
}

// ResearchBundle is reference text about a topic plus the sources it was
// built from. Sources is never empty once returned by the research stage.
type ResearchBundle struct {
	Body    string   `json:"body" yaml:"body"`
	Sources []Source `json:"sources" yaml:"sources"`

	// Provider names the retrieval tier that produced the bundle.
	Provider string `json:"provider" yaml:"provider"`
}

// EssayResult is the assembled output of one pipeline run.
type EssayResult struct {
	RunID  string `json:"run_id" yaml:"run_id"`
	Topic  string `json:"topic" yaml:"topic"`
	Stance Stance `json:"sentiment" yaml:"sentiment"`

	// Confidence is reported on a 0-100 scale.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	Content   string   `json:"content" yaml:"content"`
	Sources   []Source `json:"sources" yaml:"sources"`
	WordCount int      `json:"word_count" yaml:"word_count"`
	CharCount int      `json:"char_count" yaml:"char_count"`

	// GeneratedBy is the generator name, or "template" when the
	// deterministic composer wrote the essay.
	GeneratedBy string `json:"generated_by" yaml:"generated_by"`
}
