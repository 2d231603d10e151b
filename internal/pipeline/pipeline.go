// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the three essay stages in order: resolve the stance,
// retrieve research, compose the essay. Each stage degrades instead of
// failing, so a valid request always produces a result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/essay-engine/internal/compose"
	"github.com/pdiddy/essay-engine/internal/research"
	"github.com/pdiddy/essay-engine/internal/stance"
	"github.com/pdiddy/essay-engine/pkg/types"
)

const (
	minTopicLength     = 3
	defaultMinLength   = 300
	defaultMaxLength   = 600
	defaultConcurrency = 2
)

var (
	// ErrInvalidInput is returned for requests that fail validation. No
	// stage runs for an invalid request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationFailed is returned when a stage fails unexpectedly.
	ErrGenerationFailed = errors.New("essay generation failed")
)

// StanceClassifier infers the stance of free text.
type StanceClassifier interface {
	Classify(ctx context.Context, text string) types.Classification
}

// Retriever gathers research for a topic. It never fails.
type Retriever interface {
	Retrieve(ctx context.Context, topic string) types.ResearchBundle
}

// Composer writes the essay and reports what wrote it.
type Composer interface {
	Compose(ctx context.Context, topic string, stance types.Stance, research string, targetWords int) (content, generatedBy string)
}

// Request is one essay generation request.
type Request struct {
	Topic     string       `json:"topic" yaml:"topic" validate:"required"`
	Stance    types.Stance `json:"sentiment" yaml:"sentiment" validate:"oneof=auto positive negative neutral"`
	MinLength int          `json:"min_length" yaml:"min_length" validate:"gte=0"`
	MaxLength int          `json:"max_length" yaml:"max_length" validate:"gte=0,gtefield=MinLength"`
}

// Pipeline wires the three stages. It holds no per-run state, so one
// Pipeline may serve concurrent runs.
type Pipeline struct {
	classifier StanceClassifier
	retriever  Retriever
	composer   Composer
	logger     *zap.Logger
	validate   *validator.Validate

	// Concurrency caps parallel runs in RunBatch.
	Concurrency int
}

// New returns a Pipeline over the given stages.
func New(classifier StanceClassifier, retriever Retriever, composer Composer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		classifier:  classifier,
		retriever:   retriever,
		composer:    composer,
		logger:      logger,
		validate:    validator.New(),
		Concurrency: defaultConcurrency,
	}
}

// NewFromConfig builds the production stages from cfg. The classifier uses
// the process-wide sentiment model installed with stance.InitModel, if any.
func NewFromConfig(cfg types.PipelineConfig, logger *zap.Logger) (*Pipeline, error) {
	gen, err := compose.NewGenerator(cfg.Generation, logger)
	if err != nil {
		return nil, err
	}
	p := New(
		stance.NewClassifier(stance.SharedModel(), logger),
		research.NewDefaultRetriever(cfg.Research, logger),
		compose.NewComposer(gen, logger),
		logger,
	)
	if cfg.Concurrency > 0 {
		p.Concurrency = cfg.Concurrency
	}
	return p, nil
}

// Normalize trims the topic, resolves the stance name, applies the default
// length window, and validates the result.
func (p *Pipeline) Normalize(req Request) (Request, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if utf8.RuneCountInString(req.Topic) < minTopicLength {
		return req, fmt.Errorf("%w: topic must be at least %d characters", ErrInvalidInput, minTopicLength)
	}

	s, err := types.ParseStance(string(req.Stance))
	if err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	req.Stance = s

	if req.MinLength == 0 && req.MaxLength == 0 {
		req.MinLength, req.MaxLength = defaultMinLength, defaultMaxLength
	}

	if err := p.validate.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return req, nil
}

// Run produces one essay. Only ErrInvalidInput and ErrGenerationFailed are
// returned.
func (p *Pipeline) Run(ctx context.Context, req Request) (result *types.EssayResult, err error) {
	req, err = p.Normalize(req)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := p.logger.With(zap.String("run_id", runID), zap.String("topic", req.Topic))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("stage panicked", zap.Any("panic", rec))
			result, err = nil, fmt.Errorf("%w: %v", ErrGenerationFailed, rec)
		}
	}()

	cls := p.resolveStance(ctx, req)
	log.Info("stance resolved",
		zap.String("stance", string(cls.Stance)),
		zap.Float64("confidence", cls.Confidence),
		zap.String("method", cls.Method))

	bundle := p.retriever.Retrieve(ctx, req.Topic)
	log.Info("research retrieved",
		zap.String("provider", bundle.Provider),
		zap.Int("sources", len(bundle.Sources)))

	target := (req.MinLength + req.MaxLength) / 2
	content, by := p.composer.Compose(ctx, req.Topic, cls.Stance, bundle.Body, target)

	result = &types.EssayResult{
		RunID:       runID,
		Topic:       req.Topic,
		Stance:      cls.Stance,
		Confidence:  Percent(cls.Confidence),
		Content:     content,
		Sources:     bundle.Sources,
		WordCount:   len(strings.Fields(content)),
		CharCount:   utf8.RuneCountInString(content),
		GeneratedBy: by,
	}
	log.Info("essay complete",
		zap.String("generated_by", by),
		zap.Int("words", result.WordCount))
	return result, nil
}

func (p *Pipeline) resolveStance(ctx context.Context, req Request) types.Classification {
	if req.Stance != types.StanceAuto {
		return types.Classification{Stance: req.Stance, Confidence: 1.0, Method: "requested"}
	}
	return p.classifier.Classify(ctx, req.Topic)
}

// Percent converts a 0-1 confidence to a 0-100 value with two decimals.
func Percent(c float64) float64 {
	return math.Round(c*100*100) / 100
}

// RunBatch runs reqs concurrently, at most Concurrency at a time. Results
// are returned in request order. The first error cancels runs that have
// not started and is returned alongside the results that completed.
func (p *Pipeline) RunBatch(ctx context.Context, reqs []Request) ([]*types.EssayResult, error) {
	results := make([]*types.EssayResult, len(reqs))

	limit := p.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := p.Run(gCtx, req)
			if err != nil {
				return fmt.Errorf("request %d (%q): %w", i, req.Topic, err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	return results, err
}
