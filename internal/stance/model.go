// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/essay-engine/internal/httputil"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// DefaultModel is the hosted sentiment model queried by HuggingFaceModel.
const DefaultModel = "cardiffnlp/twitter-roberta-base-sentiment-latest"

const defaultModelTimeout = 20 * time.Second

// Prediction is the top label a sentiment model assigns to some text.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentModel abstracts the statistical classifier consulted when the
// lexical rules tie. Implementations must be safe for concurrent use.
type SentimentModel interface {
	Predict(ctx context.Context, text string) (Prediction, error)
}

// inferenceAPIBase is the hosted inference endpoint. Package-level var for
// test substitution.
var inferenceAPIBase = "https://api-inference.huggingface.co/models/"

// HuggingFaceModel queries a hosted text-classification model. Timeout
// bounds a whole Predict call, retries and backoff included.
type HuggingFaceModel struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Client  *http.Client
	Logger  *zap.Logger
}

// NewHuggingFaceModel builds a model client from configuration, applying the
// default model and timeout when unset.
func NewHuggingFaceModel(cfg types.ClassifierConfig, logger *zap.Logger) *HuggingFaceModel {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &HuggingFaceModel{
		APIKey:  cfg.APIKey,
		Model:   model,
		Timeout: timeout,
		Client:  &http.Client{},
		Logger:  logger,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Predict sends text to the inference endpoint and returns the highest
// scoring label.
func (m *HuggingFaceModel) Predict(ctx context.Context, text string) (Prediction, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshaling request: %w", err)
	}

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, inferenceAPIBase+m.Model, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, m.Client, req, 0, m.Logger)
	if err != nil {
		return Prediction{}, fmt.Errorf("calling inference API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Prediction{}, fmt.Errorf("inference API returned %d: %s", resp.StatusCode, string(msg))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prediction{}, fmt.Errorf("reading inference response: %w", err)
	}
	return parsePredictions(raw)
}

// parsePredictions accepts both the nested ([[...]]) and flat ([...]) list
// shapes the inference API returns and picks the best label.
func parsePredictions(raw []byte) (Prediction, error) {
	var nested [][]Prediction
	var preds []Prediction
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		preds = nested[0]
	} else if err := json.Unmarshal(raw, &preds); err != nil {
		return Prediction{}, fmt.Errorf("decoding inference response: %w", err)
	}

	if len(preds) == 0 {
		return Prediction{}, errors.New("inference API returned no labels")
	}

	best := preds[0]
	for _, p := range preds[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, nil
}

// ErrModelInitialized is returned when InitModel is called twice without an
// intervening CloseModel.
var ErrModelInitialized = errors.New("sentiment model already initialized")

// The process-wide model is installed once at startup and only read after
// that.
var (
	sharedMu    sync.RWMutex
	sharedModel SentimentModel
)

// InitModel installs the process-wide sentiment model.
func InitModel(m SentimentModel) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedModel != nil {
		return ErrModelInitialized
	}
	sharedModel = m
	return nil
}

// SharedModel returns the process-wide sentiment model, or nil before
// InitModel.
func SharedModel() SentimentModel {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return sharedModel
}

// CloseModel releases the process-wide model, closing it if it implements
// io.Closer.
func CloseModel() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	m := sharedModel
	sharedModel = nil
	if c, ok := m.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
