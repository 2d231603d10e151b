// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/essay-engine/internal/secrets"
	"github.com/pdiddy/essay-engine/internal/stance"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// resetConfig isolates a test from global viper and secrets state.
func resetConfig(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	viper.Reset()
	setDefaults()
	loadedSecrets = map[string]string{}
	t.Cleanup(func() {
		viper.Reset()
		setDefaults()
		loadedSecrets = nil
	})
}

func sampleResult(topic string) *types.EssayResult {
	return &types.EssayResult{
		RunID:       "run-1",
		Topic:       topic,
		Stance:      types.StancePositive,
		Confidence:  85,
		Content:     "Essay body.",
		Sources:     []types.Source{{Title: "T", URL: "https://example.com/a", Source: "example.com"}},
		WordCount:   2,
		CharCount:   11,
		GeneratedBy: "template",
	}
}

func TestSecretDefault(t *testing.T) {
	resetConfig(t)
	loadedSecrets = map[string]string{secrets.TavilyKey: "tvly-secret"}

	assert.Equal(t, "tvly-secret", secretDefault(secrets.TavilyKey, ""))
	assert.Equal(t, "tvly-flag", secretDefault(secrets.TavilyKey, "tvly-flag"))
	assert.Empty(t, secretDefault(secrets.OpenAIKey, ""))
}

func TestLoadPipelineConfigDefaults(t *testing.T) {
	resetConfig(t)

	cfg := loadPipelineConfig()
	assert.Equal(t, types.ProviderOpenAI, cfg.Generation.Provider)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, 2000, cfg.Generation.MaxTokens)
	assert.Equal(t, 5, cfg.Research.MaxResults)
	assert.Equal(t, "15s", cfg.Research.SearchTimeout.String())
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestLoadPipelineConfigFillsSecrets(t *testing.T) {
	resetConfig(t)
	loadedSecrets = map[string]string{
		secrets.TavilyKey:      "tvly-1",
		secrets.OpenAIKey:      "sk-1",
		secrets.GeminiKey:      "gm-1",
		secrets.HuggingFaceKey: "hf-1",
	}

	cfg := loadPipelineConfig()
	assert.Equal(t, "tvly-1", cfg.Research.TavilyAPIKey)
	assert.Equal(t, "sk-1", cfg.Generation.APIKey)
	assert.Equal(t, "hf-1", cfg.Classifier.APIKey)

	viper.Set("generation.provider", "gemini")
	cfg = loadPipelineConfig()
	assert.Equal(t, "gm-1", cfg.Generation.APIKey)
}

func TestLoadPipelineConfigPrefersExplicitKey(t *testing.T) {
	resetConfig(t)
	loadedSecrets = map[string]string{secrets.TavilyKey: "from-file"}
	viper.Set("research.tavily_api_key", "from-config")

	assert.Equal(t, "from-config", loadPipelineConfig().Research.TavilyAPIKey)
}

func TestBuildHealthReport(t *testing.T) {
	cfg := types.PipelineConfig{
		Research:   types.ResearchConfig{TavilyAPIKey: "tvly-real"},
		Generation: types.GenerationConfig{AIConfig: types.AIConfig{APIKey: "your-openai-key-here"}},
	}
	r := buildHealthReport(cfg)

	assert.Equal(t, "healthy", r.Status)
	assert.Equal(t, "openai", r.Generator)
	require.Len(t, r.Credentials, 3)
	assert.Equal(t, credentialState{Service: "tavily", Configured: true, Fallback: "wikipedia"}, r.Credentials[0])
	assert.False(t, r.Credentials[1].Configured)
	assert.False(t, r.Credentials[2].Configured)
}

func TestOutputFormat(t *testing.T) {
	resetConfig(t)

	f, err := outputFormat()
	require.NoError(t, err)
	assert.Equal(t, types.OutputText, f)

	viper.Set("format", "JSON")
	f, err = outputFormat()
	require.NoError(t, err)
	assert.Equal(t, types.OutputJSON, f)

	viper.Set("format", "xml")
	_, err = outputFormat()
	assert.Error(t, err)
}

func TestWriteEssaysJSON(t *testing.T) {
	var single bytes.Buffer
	require.NoError(t, writeEssays(&single, types.OutputJSON, []*types.EssayResult{sampleResult("solar")}))

	var obj map[string]any
	require.NoError(t, json.Unmarshal(single.Bytes(), &obj))
	assert.Equal(t, "solar", obj["topic"])
	assert.Equal(t, "positive", obj["sentiment"])
	assert.Equal(t, 85.0, obj["confidence"])

	var many bytes.Buffer
	require.NoError(t, writeEssays(&many, types.OutputJSON, []*types.EssayResult{sampleResult("solar"), sampleResult("wind")}))

	var list []map[string]any
	require.NoError(t, json.Unmarshal(many.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "wind", list[1]["topic"])
}

func TestWriteEssaysYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEssays(&buf, types.OutputYAML, []*types.EssayResult{sampleResult("solar")}))

	var decoded types.EssayResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, types.StancePositive, decoded.Stance)
	assert.Contains(t, buf.String(), "sentiment: positive")
	assert.Contains(t, buf.String(), "generated_by: template")
}

func TestWriteEssaysText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEssays(&buf, types.OutputText, []*types.EssayResult{sampleResult("solar"), sampleResult("wind")}))

	out := buf.String()
	assert.Contains(t, out, "# solar")
	assert.Contains(t, out, "# wind")
	assert.Contains(t, out, "Stance: positive (85.00% confidence)")
	assert.Contains(t, out, "1. T (example.com)")
	assert.Equal(t, 1, strings.Count(out, essaySeparator))
}

type closableModel struct{ closed bool }

func (m *closableModel) Predict(context.Context, string) (stance.Prediction, error) {
	return stance.Prediction{}, nil
}

func (m *closableModel) Close() error {
	m.closed = true
	return nil
}

func TestShutdownAfterFailedCommand(t *testing.T) {
	resetConfig(t)
	m := &closableModel{}
	require.NoError(t, stance.InitModel(m))
	t.Cleanup(func() { _ = stance.CloseModel() })

	cmd := &cobra.Command{
		Use:  "fail",
		RunE: func(*cobra.Command, []string) error { return errors.New("boom") },
	}
	cmd.SetArgs([]string{})
	cmd.SilenceErrors = true
	require.Error(t, cmd.Execute())

	require.NoError(t, shutdown())
	assert.True(t, m.closed)
	assert.Nil(t, stance.SharedModel())
}

func TestInitSentimentModelSkipsPlaceholderKey(t *testing.T) {
	resetConfig(t)
	require.NoError(t, initSentimentModel(types.ClassifierConfig{APIKey: "your-hf-token"}))
}

type countingClassifier struct {
	calls int
	out   types.Classification
}

func (c *countingClassifier) Classify(_ context.Context, _ string) types.Classification {
	c.calls++
	return c.out
}

func TestClassifyTextShortInput(t *testing.T) {
	for _, text := range []string{"", "  ", "ok", " é! "} {
		c := &countingClassifier{}
		got := classifyText(context.Background(), c, text)

		assert.Equal(t, classifyResult{Stance: types.StanceNeutral, Message: "Type something..."}, got, "text %q", text)
		assert.Zero(t, c.calls)
	}
}

func TestClassifyTextReportsPercent(t *testing.T) {
	c := &countingClassifier{out: types.Classification{Stance: types.StancePositive, Confidence: 0.8567, Method: "lexicon"}}
	got := classifyText(context.Background(), c, "  solar power is great  ")

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, types.StancePositive, got.Stance)
	assert.Equal(t, 85.67, got.Confidence)
	assert.Equal(t, "lexicon", got.Method)
	assert.Equal(t, "POSITIVE detected", got.Message)

	var buf bytes.Buffer
	printClassification(&buf, got)
	assert.Equal(t, "positive\t85.67%\tPOSITIVE detected\n", buf.String())
}
