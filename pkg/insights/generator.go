// Package insights produces the natural-language part of a daily summary,
// either from an AI model or from a deterministic fallback.
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/unowned-ai/moodlog/pkg/checkins"
	"github.com/unowned-ai/moodlog/pkg/mood"
)

// Generator turns a scored day into a DailySummaryAI. The AI path is best
// effort: every failure falls back to Fallback and nothing is returned as an error.
type Generator struct {
	cfg     Config
	model   llms.Model
	limiter *rate.Limiter
	logger  *zap.Logger
}

type Option func(*Generator)

// WithModel sets the model used on the AI path. A nil model disables it.
func WithModel(m llms.Model) Option {
	return func(g *Generator) { g.model = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a Generator. Without WithModel it only ever uses the fallback.
func NewGenerator(cfg Config, opts ...Option) *Generator {
	cfg = cfg.withDefaults()
	g := &Generator{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	if cfg.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AIEnabled reports whether Generate will try the model before falling back.
func (g *Generator) AIEnabled() bool {
	return g.model != nil
}

// Generate returns AI insights when the model answers with a usable JSON
// object, and Fallback(agg) otherwise.
func (g *Generator) Generate(ctx context.Context, entries []checkins.CheckIn, agg mood.Aggregate) DailySummaryAI {
	fallback := Fallback(agg)
	if g.model == nil {
		return fallback
	}

	if g.limiter != nil && !g.limiter.Allow() {
		g.logger.Warn("AI request rate limit reached, using fallback insights",
			zap.Int("requests_per_minute", g.cfg.RequestsPerMinute))
		return fallback
	}

	out, err := g.generateAI(ctx, entries, agg, fallback)
	if err != nil {
		g.logger.Warn("AI insight generation failed, using fallback insights",
			zap.String("model", g.cfg.Model),
			zap.Int("total_entries", agg.TotalEntries),
			zap.Error(err))
		return fallback
	}

	return out
}

func (g *Generator) generateAI(ctx context.Context, entries []checkins.CheckIn, agg mood.Aggregate, fallback DailySummaryAI) (out DailySummaryAI, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("AI client panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, BuildPrompt(entries, agg),
		llms.WithTemperature(g.cfg.Temperature),
		llms.WithTopK(g.cfg.TopK),
		llms.WithTopP(g.cfg.TopP),
		llms.WithMaxTokens(g.cfg.MaxOutputTokens),
	)
	if err != nil {
		return DailySummaryAI{}, fmt.Errorf("AI request failed: %w", err)
	}

	return ParseResponse(text, fallback)
}
