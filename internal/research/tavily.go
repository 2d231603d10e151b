// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/essay-engine/internal/httputil"
	"github.com/pdiddy/essay-engine/internal/secrets"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// tavilyAPIURL is the Tavily search endpoint. Declared as a var so tests can
// substitute an httptest server.
var tavilyAPIURL = "https://api.tavily.com/search"

const (
	defaultSearchTimeout = 15 * time.Second
	defaultMaxResults    = 5
	querySuffix          = " latest information news 2024 2025"
)

// TavilyProvider queries the Tavily search API with an AI answer summary.
type TavilyProvider struct {
	APIKey     string
	MaxResults int
	UserAgent  string
	Client     *http.Client
	Logger     *zap.Logger
}

// NewTavilyProvider builds the provider from configuration.
func NewTavilyProvider(cfg types.ResearchConfig, logger *zap.Logger) *TavilyProvider {
	timeout := cfg.SearchTimeout
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TavilyProvider{
		APIKey:     cfg.TavilyAPIKey,
		MaxResults: maxResults,
		UserAgent:  cfg.UserAgent,
		Client:     &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

// Name returns the provider identifier.
func (p *TavilyProvider) Name() string { return "tavily" }

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
	MaxResults        int    `json:"max_results"`
}

type tavilyResponse struct {
	Answer  string         `json:"answer"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Fetch searches for recent information about topic.
func (p *TavilyProvider) Fetch(ctx context.Context, topic string) (types.ResearchBundle, error) {
	if secrets.IsPlaceholder(p.APIKey) {
		return types.ResearchBundle{}, httputil.Unavailable(p.Name(), "API key not configured")
	}

	payload, err := json.Marshal(tavilyRequest{
		APIKey:            p.APIKey,
		Query:             topic + querySuffix,
		SearchDepth:       "advanced",
		IncludeAnswer:     true,
		IncludeRawContent: false,
		MaxResults:        p.MaxResults,
	})
	if err != nil {
		return types.ResearchBundle{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIURL, bytes.NewReader(payload))
	if err != nil {
		return types.ResearchBundle{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	p.Logger.Debug("searching", zap.String("provider", p.Name()), zap.String("topic", topic))

	resp, err := p.Client.Do(req)
	if err != nil {
		return types.ResearchBundle{}, httputil.TransportError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.ResearchBundle{}, httputil.StatusError(p.Name(), resp.StatusCode, string(msg))
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return types.ResearchBundle{}, httputil.TransportError(p.Name(), fmt.Errorf("decoding response: %w", err))
	}

	bundle := buildTavilyBundle(tr)
	if bundle.Body == "" {
		return types.ResearchBundle{}, httputil.StatusError(p.Name(), 0, "empty search content")
	}
	return bundle, nil
}

// buildTavilyBundle joins the answer summary and each result's content into
// one body and records a Source per result in result order.
func buildTavilyBundle(tr tavilyResponse) types.ResearchBundle {
	var b strings.Builder
	if tr.Answer != "" {
		fmt.Fprintf(&b, "Overview: %s\n\n", tr.Answer)
	}

	sources := make([]types.Source, 0, len(tr.Results))
	for _, r := range tr.Results {
		fmt.Fprintf(&b, "\n%s\n", r.Content)

		title := r.Title
		if title == "" {
			title = "Web Article"
		}
		sources = append(sources, types.Source{
			Title:  title,
			URL:    r.URL,
			Source: cleanDomain(r.URL),
		})
	}

	return types.ResearchBundle{
		Body:     strings.TrimSpace(b.String()),
		Sources:  sources,
		Provider: "tavily",
	}
}

// cleanDomain returns the host segment of rawURL without a leading "www.",
// or "Web Source" when the URL has no host segment.
func cleanDomain(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	if len(parts) < 3 || parts[2] == "" {
		return "Web Source"
	}
	return strings.TrimPrefix(parts[2], "www.")
}
