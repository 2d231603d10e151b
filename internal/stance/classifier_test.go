// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/essay-engine/pkg/types"
)

// --- mock model ---

type mockModel struct {
	pred  Prediction
	err   error
	calls int
	input string
}

func (m *mockModel) Predict(_ context.Context, text string) (Prediction, error) {
	m.calls++
	m.input = text
	return m.pred, m.err
}

func TestClassifyNegationOverride(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.Stance
	}{
		{"no benefit", "There is no benefit to this plan", types.StanceNegative},
		{"no benefit uppercase", "NO BENEFIT whatsoever", types.StanceNegative},
		{"not a problem", "Honestly it is not a problem", types.StancePositive},
		{"not a problem mixed case", "Not A Problem for anyone", types.StancePositive},
		{"never improve", "Prices never improve", types.StanceNegative},
		{"contracted negation", "it doesn't improve anything", types.StanceNegative},
		{"without risk", "a path without risk", types.StancePositive},
		{"hardly growth", "hardly growth at all", types.StanceNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockModel{}
			got := NewClassifier(m, nil).Classify(context.Background(), tt.text)
			assert.Equal(t, tt.want, got.Stance)
			assert.Equal(t, 0.88, got.Confidence)
			assert.Equal(t, "negation", got.Method)
			assert.Zero(t, m.calls, "model must not be consulted")
		})
	}
}

func TestClassifyNegationOrderIsNegationMajor(t *testing.T) {
	// "no risk" (positive result) is found under the first negation word,
	// before "not benefit" (negative result) under the second.
	got := NewClassifier(nil, nil).Classify(context.Background(), "not benefit and no risk")
	assert.Equal(t, types.StancePositive, got.Stance)

	// Within one negation word positive indicators are scanned first.
	got = NewClassifier(nil, nil).Classify(context.Background(), "no risk, no benefit")
	assert.Equal(t, types.StanceNegative, got.Stance)
}

func TestClassifyLexicalMajority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.Stance
	}{
		{"three positive one negative", "Solar growth is a breakthrough with real potential despite the cost concern", types.StancePositive},
		{"negative majority", "The crisis brought failure, damage and one opportunity", types.StanceNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockModel{}
			got := NewClassifier(m, nil).Classify(context.Background(), tt.text)
			assert.Equal(t, tt.want, got.Stance)
			assert.Equal(t, 0.85, got.Confidence)
			assert.Equal(t, "lexicon", got.Method)
			assert.Zero(t, m.calls)
		})
	}
}

func TestClassifyTieDefersToModel(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		want  types.Stance
	}{
		{"zero hits positive label", "renewable energy", "positive", types.StancePositive},
		{"non-zero tie negative label", "growth and risk", "NEGATIVE", types.StanceNegative},
		{"neutral label", "quantum computing", "neutral", types.StanceNeutral},
		{"unknown label", "quantum computing", "LABEL_1", types.StanceNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockModel{pred: Prediction{Label: tt.label, Score: 0.61}}
			got := NewClassifier(m, nil).Classify(context.Background(), tt.text)
			assert.Equal(t, tt.want, got.Stance)
			assert.Equal(t, 0.61, got.Confidence)
			assert.Equal(t, "model", got.Method)
			assert.Equal(t, 1, m.calls)
		})
	}
}

func TestClassifyModelFailure(t *testing.T) {
	m := &mockModel{err: errors.New("model exploded")}
	got := NewClassifier(m, nil).Classify(context.Background(), "quantum computing")
	assert.Equal(t, types.Classification{Stance: types.StanceNeutral, Confidence: 0.70, Method: "fallback"}, got)
}

func TestClassifyNilModel(t *testing.T) {
	got := NewClassifier(nil, nil).Classify(context.Background(), "quantum computing")
	assert.Equal(t, types.StanceNeutral, got.Stance)
	assert.Equal(t, 0.70, got.Confidence)
}

func TestClassifyEmptyText(t *testing.T) {
	m := &mockModel{}
	got := NewClassifier(m, nil).Classify(context.Background(), "   \n")
	assert.Equal(t, types.StanceNeutral, got.Stance)
	assert.Zero(t, got.Confidence)
	assert.Zero(t, m.calls)
}

func TestClassifyTruncatesModelInput(t *testing.T) {
	m := &mockModel{pred: Prediction{Label: "neutral", Score: 0.5}}
	text := strings.Repeat("é", 600)
	NewClassifier(m, nil).Classify(context.Background(), text)
	require.Equal(t, 1, m.calls)
	assert.Equal(t, 512, len([]rune(m.input)))
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewClassifier(nil, nil)
	for _, text := range []string{"not a problem", "no benefit", "growth success risk", "weather"} {
		first := c.Classify(context.Background(), text)
		second := c.Classify(context.Background(), text)
		assert.Equal(t, first, second, text)
	}
}

func TestNegationPatternOrder(t *testing.T) {
	want := len(negationWords) * (len(positiveIndicators) + len(negativeIndicators))
	require.Len(t, negationPatterns, want)
	assert.Equal(t, types.StanceNegative, negationPatterns[0].result)
	assert.Equal(t, types.StancePositive, negationPatterns[len(positiveIndicators)].result)
}

func TestStanceFromLabel(t *testing.T) {
	assert.Equal(t, types.StancePositive, stanceFromLabel("Positive"))
	assert.Equal(t, types.StanceNegative, stanceFromLabel("negative"))
	assert.Equal(t, types.StanceNeutral, stanceFromLabel("neutral"))
}
