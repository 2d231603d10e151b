// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stance decides whether a span of text reads as positive, negative,
// or neutral. Lexical rules run first; a statistical sentiment model is
// consulted only when the rules cannot decide.
package stance

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/essay-engine/pkg/types"
)

// Confidence values reported by the rule tiers.
const (
	negationConfidence = 0.88
	lexiconConfidence  = 0.85
	fallbackConfidence = 0.70

	// modelInputLimit is the number of characters passed to the sentiment model.
	modelInputLimit = 512
)

var positiveIndicators = []string{
	"benefit", "advantage", "opportunity", "solution", "improve", "innovation",
	"success", "growth", "development", "advancement", "progress", "potential",
	"effective", "efficient", "promising", "breakthrough", "achievement",
}

var negativeIndicators = []string{
	"problem", "issue", "challenge", "concern", "risk", "threat", "crisis",
	"failure", "decline", "loss", "damage", "harm", "danger", "difficulty",
	"obstacle", "barrier", "limitation", "weakness", "drawback",
}

var negationWords = []string{"no", "not", "never", "without", "hardly", "barely", "n't"}

// negationPattern flips the stance of the indicator it precedes.
type negationPattern struct {
	re     *regexp.Regexp
	result types.Stance
}

// negationPatterns is built once, negation-major: for each negation word the
// positive indicators come first, then the negative ones. The first match
// in this order decides.
var negationPatterns = buildNegationPatterns()

func buildNegationPatterns() []negationPattern {
	patterns := make([]negationPattern, 0, len(negationWords)*(len(positiveIndicators)+len(negativeIndicators)))
	add := func(neg, indicator string, result types.Stance) {
		// An article may sit between the negation and the indicator
		// ("not a problem").
		expr := regexp.QuoteMeta(neg) + `\s+(?:(?:a|an|the)\s+)?` + regexp.QuoteMeta(indicator)
		patterns = append(patterns, negationPattern{re: regexp.MustCompile(expr), result: result})
	}
	for _, neg := range negationWords {
		for _, w := range positiveIndicators {
			add(neg, w, types.StanceNegative)
		}
		for _, w := range negativeIndicators {
			add(neg, w, types.StancePositive)
		}
	}
	return patterns
}

// Classifier applies the rule tiers and falls back to a SentimentModel.
// It holds no per-call state and is safe for concurrent use.
type Classifier struct {
	model  SentimentModel
	logger *zap.Logger
}

// NewClassifier returns a Classifier backed by model. A nil model makes the
// model tier report neutral at the fallback confidence.
func NewClassifier(model SentimentModel, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{model: model, logger: logger}
}

// Classify returns the stance of text and the confidence in it.
func (c *Classifier) Classify(ctx context.Context, text string) types.Classification {
	if strings.TrimSpace(text) == "" {
		return types.Classification{Stance: types.StanceNeutral, Confidence: 0, Method: "empty"}
	}

	lower := strings.ToLower(text)

	if s, ok := matchNegation(lower); ok {
		return types.Classification{Stance: s, Confidence: negationConfidence, Method: "negation"}
	}

	pos, neg := countIndicators(lower)
	switch {
	case pos > neg:
		return types.Classification{Stance: types.StancePositive, Confidence: lexiconConfidence, Method: "lexicon"}
	case neg > pos:
		return types.Classification{Stance: types.StanceNegative, Confidence: lexiconConfidence, Method: "lexicon"}
	}

	return c.classifyWithModel(ctx, text)
}

// matchNegation scans the precompiled negation patterns in order.
func matchNegation(lower string) (types.Stance, bool) {
	for _, p := range negationPatterns {
		if p.re.MatchString(lower) {
			return p.result, true
		}
	}
	return "", false
}

// countIndicators returns how many words of each lexicon occur in lower.
// Each word counts once; substrings of longer words count too.
func countIndicators(lower string) (pos, neg int) {
	for _, w := range positiveIndicators {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeIndicators {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	return pos, neg
}

func (c *Classifier) classifyWithModel(ctx context.Context, text string) types.Classification {
	if c.model == nil {
		return types.Classification{Stance: types.StanceNeutral, Confidence: fallbackConfidence, Method: "fallback"}
	}

	pred, err := c.model.Predict(ctx, truncateRunes(text, modelInputLimit))
	if err != nil {
		c.logger.Warn("sentiment model failed, defaulting to neutral", zap.Error(err))
		return types.Classification{Stance: types.StanceNeutral, Confidence: fallbackConfidence, Method: "fallback"}
	}

	return types.Classification{Stance: stanceFromLabel(pred.Label), Confidence: pred.Score, Method: "model"}
}

// stanceFromLabel maps model labels such as "POSITIVE", "LABEL_neg" or
// "neutral" onto a Stance.
func stanceFromLabel(label string) types.Stance {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "pos"):
		return types.StancePositive
	case strings.Contains(l, "neg"):
		return types.StanceNegative
	default:
		return types.StanceNeutral
	}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
