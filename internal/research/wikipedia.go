// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/essay-engine/internal/httputil"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// wikipediaAPIBase is the REST summary endpoint. Package-level var for test
// substitution.
var wikipediaAPIBase = "https://en.wikipedia.org/api/rest_v1/page/summary/"

const defaultEncyclopediaTimeout = 5 * time.Second

// WikipediaProvider fetches the lead summary of the article named after the topic.
type WikipediaProvider struct {
	UserAgent string
	Client    *http.Client
	Logger    *zap.Logger
}

// NewWikipediaProvider builds the provider from configuration.
func NewWikipediaProvider(cfg types.ResearchConfig, logger *zap.Logger) *WikipediaProvider {
	timeout := cfg.EncyclopediaTimeout
	if timeout <= 0 {
		timeout = defaultEncyclopediaTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WikipediaProvider{
		UserAgent: cfg.UserAgent,
		Client:    &http.Client{Timeout: timeout},
		Logger:    logger,
	}
}

// Name returns the provider identifier.
func (p *WikipediaProvider) Name() string { return "wikipedia" }

type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Fetch requests the summary of the article titled topic (spaces become
// underscores).
func (p *WikipediaProvider) Fetch(ctx context.Context, topic string) (types.ResearchBundle, error) {
	title := strings.ReplaceAll(topic, " ", "_")
	reqURL := wikipediaAPIBase + url.PathEscape(title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.ResearchBundle{}, fmt.Errorf("creating request: %w", err)
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	p.Logger.Debug("fetching summary", zap.String("provider", p.Name()), zap.String("title", title))

	resp, err := p.Client.Do(req)
	if err != nil {
		return types.ResearchBundle{}, httputil.TransportError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.ResearchBundle{}, httputil.StatusError(p.Name(), resp.StatusCode, "summary not available")
	}

	var ws wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return types.ResearchBundle{}, httputil.TransportError(p.Name(), fmt.Errorf("decoding response: %w", err))
	}
	if ws.Extract == "" {
		return types.ResearchBundle{}, httputil.StatusError(p.Name(), 0, "empty extract")
	}

	sourceTitle := ws.Title
	if sourceTitle == "" {
		sourceTitle = topic
	}
	return types.ResearchBundle{
		Body: ws.Extract,
		Sources: []types.Source{{
			Title:  sourceTitle,
			URL:    ws.ContentURLs.Desktop.Page,
			Source: "Wikipedia",
		}},
		Provider: p.Name(),
	}, nil
}
