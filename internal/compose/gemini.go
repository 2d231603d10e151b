// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pdiddy/essay-engine/internal/httputil"
	"github.com/pdiddy/essay-engine/internal/secrets"
	"github.com/pdiddy/essay-engine/pkg/types"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiBaseURL overrides the SDK's API endpoint when set. Package-level var
// for test substitution.
var geminiBaseURL = ""

// GeminiGenerator calls the Gemini API through the genai SDK. The SDK client
// is created on first use.
type GeminiGenerator struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewGeminiGenerator builds a generator from configuration, applying defaults.
func NewGeminiGenerator(cfg types.GenerationConfig, logger *zap.Logger) *GeminiGenerator {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGenTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiGenerator{
		APIKey:      cfg.APIKey,
		Model:       model,
		Temperature: orDefault(cfg.Temperature, defaultTemperature),
		MaxTokens:   int(orDefault(float64(cfg.MaxTokens), defaultMaxTokens)),
		Timeout:     timeout,
		Logger:      logger,
	}
}

// Name returns the generator identifier.
func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) genaiClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		g.client, g.clientErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      g.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: geminiBaseURL},
		})
	})
	return g.client, g.clientErr
}

// Generate sends the system prompt as a system instruction and the user
// prompt as content. The call is bounded by Timeout regardless of ctx.
func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if secrets.IsPlaceholder(g.APIKey) {
		return "", fmt.Errorf("%s: %w", g.Name(), ErrNotConfigured)
	}

	client, err := g.genaiClient(ctx)
	if err != nil {
		return "", httputil.TransportError(g.Name(), fmt.Errorf("creating client: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	g.Logger.Debug("calling generator", zap.String("generator", g.Name()), zap.String("model", g.Model))

	resp, err := client.Models.GenerateContent(ctx, g.Model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(g.Temperature)),
		MaxOutputTokens:   int32(g.MaxTokens),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			return "", httputil.StatusError(g.Name(), apiErr.Code, apiErr.Message)
		}
		return "", httputil.TransportError(g.Name(), err)
	}

	text := resp.Text()
	if text == "" {
		return "", httputil.StatusError(g.Name(), 0, "no text in response")
	}
	return text, nil
}

// NewGenerator returns the generator selected by cfg.Provider.
func NewGenerator(cfg types.GenerationConfig, logger *zap.Logger) (Generator, error) {
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return NewOpenAIGenerator(cfg, logger), nil
	case types.ProviderGemini:
		return NewGeminiGenerator(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q: use openai or gemini", cfg.Provider)
	}
}
