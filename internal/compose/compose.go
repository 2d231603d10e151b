// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose writes a stance-matched essay from research text. A hosted
// generator writes the essay when one is configured and answers; otherwise a
// deterministic template composer does.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/essay-engine/pkg/types"
)

// TemplateGenerator is the GeneratedBy label for essays written by the
// deterministic composer.
const TemplateGenerator = "template"

// dateLayout renders the month and year used in prompts and footers.
const dateLayout = "January 2006"

// ErrNotConfigured is returned by generators whose credential is missing or
// a placeholder. Composers treat it like any other generator failure.
var ErrNotConfigured = errors.New("generator API key not configured")

// Generator abstracts a hosted text-generation service so tests can supply
// a mock. Implementations must be safe for concurrent use.
type Generator interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Composer turns research into an essay. It holds no per-call state.
type Composer struct {
	generator Generator
	logger    *zap.Logger

	// Now supplies the date for prompts and footers. Tests pin it.
	Now func() time.Time
}

// NewComposer returns a Composer that tries generator first. A nil
// generator always uses the template composer.
func NewComposer(generator Generator, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{generator: generator, logger: logger, Now: time.Now}
}

// Compose returns essay content for topic and the name of what wrote it.
// Generator failures never surface; the template composer takes over.
func (c *Composer) Compose(ctx context.Context, topic string, stance types.Stance, research string, targetWords int) (content, generatedBy string) {
	date := c.Now().Format(dateLayout)

	if c.generator != nil {
		text, err := c.generate(ctx, topic, stance, research, targetWords, date)
		if err == nil {
			c.logger.Info("essay generated",
				zap.String("generator", c.generator.Name()),
				zap.Int("words", len(strings.Fields(text))))
			return text + generatedFooter(date), c.generator.Name()
		}
		c.logger.Warn("generator failed, using template composer",
			zap.String("generator", c.generator.Name()),
			zap.Error(err))
	}

	return composeFromTemplate(topic, stance, research, date), TemplateGenerator
}

func (c *Composer) generate(ctx context.Context, topic string, stance types.Stance, research string, targetWords int, date string) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator panic: %v", rec)
		}
	}()

	system, user, err := renderPrompts(topic, stance, research, targetWords, date)
	if err != nil {
		return "", fmt.Errorf("rendering prompts: %w", err)
	}

	text, err = c.generator.Generate(ctx, system, user)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("generator returned empty text")
	}
	return text, nil
}
