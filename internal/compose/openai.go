// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/essay-engine/internal/httputil"
	"github.com/pdiddy/essay-engine/internal/secrets"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// openAIAPIURL is the chat completions endpoint. Package-level var for test
// substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultMaxTokens   = 2000
	defaultGenTimeout  = 30 * time.Second
)

// OpenAIGenerator calls the OpenAI chat completions API.
type OpenAIGenerator struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Client      *http.Client
	Logger      *zap.Logger
}

// NewOpenAIGenerator builds a generator from configuration, applying defaults.
func NewOpenAIGenerator(cfg types.GenerationConfig, logger *zap.Logger) *OpenAIGenerator {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGenTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIGenerator{
		APIKey:      cfg.APIKey,
		Model:       model,
		Temperature: orDefault(cfg.Temperature, defaultTemperature),
		MaxTokens:   int(orDefault(float64(cfg.MaxTokens), defaultMaxTokens)),
		Client:      &http.Client{Timeout: timeout},
		Logger:      logger,
	}
}

// Name returns the generator identifier.
func (g *OpenAIGenerator) Name() string { return "openai" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompts as a system and a user message and returns the
// first choice's content.
func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if secrets.IsPlaceholder(g.APIKey) {
		return "", fmt.Errorf("%s: %w", g.Name(), ErrNotConfigured)
	}

	body, err := json.Marshal(chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: g.Temperature,
		MaxTokens:   g.MaxTokens,
		TopP:        1.0,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	g.Logger.Debug("calling generator", zap.String("generator", g.Name()), zap.String("model", g.Model))

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", httputil.TransportError(g.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", httputil.StatusError(g.Name(), resp.StatusCode, string(msg))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", httputil.TransportError(g.Name(), fmt.Errorf("decoding response: %w", err))
	}
	if len(cr.Choices) == 0 {
		return "", httputil.StatusError(g.Name(), resp.StatusCode, "no choices in response")
	}
	return cr.Choices[0].Message.Content, nil
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
