// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research gathers reference text and attributed sources for a topic.
// Providers are tried in order (web search, then encyclopedia) and a
// synthetic placeholder closes the cascade, so retrieval never fails.
package research

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/essay-engine/internal/httputil"
	"github.com/pdiddy/essay-engine/pkg/types"
)

// PlaceholderProvider is the Provider name recorded on synthetic bundles.
const PlaceholderProvider = "placeholder"

// Provider fetches research for a topic from one external source. Each
// source (Tavily, Wikipedia) implements this interface per the Strategy
// pattern. A bundle is only usable when err is nil.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, topic string) (types.ResearchBundle, error)
}

// Retriever walks its providers in order and returns the first usable
// bundle. It holds no per-call state and is safe for concurrent use.
type Retriever struct {
	providers []Provider
	logger    *zap.Logger
}

// NewRetriever returns a Retriever that tries providers in the given order.
func NewRetriever(logger *zap.Logger, providers ...Provider) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{providers: providers, logger: logger}
}

// NewDefaultRetriever wires the Tavily search provider followed by the
// Wikipedia summary provider.
func NewDefaultRetriever(cfg types.ResearchConfig, logger *zap.Logger) *Retriever {
	return NewRetriever(logger,
		NewTavilyProvider(cfg, logger),
		NewWikipediaProvider(cfg, logger),
	)
}

// Retrieve returns research for topic. Provider failures are logged and
// skipped; when every provider fails the placeholder bundle is returned.
func (r *Retriever) Retrieve(ctx context.Context, topic string) types.ResearchBundle {
	for _, p := range r.providers {
		bundle, err := fetchSafely(ctx, p, topic)
		if err != nil {
			r.logger.Warn("research provider failed, trying next tier",
				zap.String("provider", p.Name()),
				zap.String("kind", string(httputil.KindOf(err))),
				zap.Error(err))
			continue
		}
		if strings.TrimSpace(bundle.Body) == "" || len(bundle.Sources) == 0 {
			r.logger.Warn("research provider returned nothing usable, trying next tier",
				zap.String("provider", p.Name()))
			continue
		}
		if bundle.Provider == "" {
			bundle.Provider = p.Name()
		}
		r.logger.Info("research retrieved",
			zap.String("provider", bundle.Provider),
			zap.Int("chars", len(bundle.Body)),
			zap.Int("sources", len(bundle.Sources)))
		return bundle
	}

	r.logger.Warn("all research providers failed, using placeholder", zap.String("topic", topic))
	return Placeholder(topic)
}

// fetchSafely converts a panicking provider into an ordinary failure.
func fetchSafely(ctx context.Context, p Provider, topic string) (bundle types.ResearchBundle, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = httputil.TransportError(p.Name(), fmt.Errorf("panic: %v", rec))
		}
	}()
	return p.Fetch(ctx, topic)
}

// Placeholder returns the synthetic bundle used when no provider produced
// research: one generic sentence and a link to a web search for the topic.
func Placeholder(topic string) types.ResearchBundle {
	return types.ResearchBundle{
		Body: fmt.Sprintf("Information about %s. This topic is currently being researched and discussed across various fields.", topic),
		Sources: []types.Source{{
			Title:  "Search results for " + topic,
			URL:    "https://www.google.com/search?q=" + url.QueryEscape(topic),
			Source: "Web Search",
		}},
		Provider: PlaceholderProvider,
	}
}
