// Package generator turns a LessonInput into structured lesson-plan content
// with one call to the configured LLM provider.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/llm"
	"github.com/abhisek/planbook/internal/logging"
	"github.com/abhisek/planbook/internal/metrics"
)

// Purpose tags generation requests in the LLM request log.
const Purpose = "lesson-plan"

// Config holds per-request generation settings.
type Config struct {
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	// Timeout bounds one generation. Zero waits for the provider.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig leaves temperature and timeout to the provider.
func DefaultConfig() Config {
	return Config{MaxTokens: 8192}
}

// Generator produces GeneratedContent. It keeps no state between calls and
// is safe for concurrent use.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *logging.Logger
}

// New creates a Generator. log may be nil.
func New(provider llm.Provider, cfg Config, log *logging.Logger) *Generator {
	if log == nil {
		log = logging.Nop()
	}
	return &Generator{provider: provider, cfg: cfg, log: log.With("component", "generator")}
}

// Generate makes exactly one request for input. Every failure is a
// *GenerationError.
func (g *Generator) Generate(ctx context.Context, input lessonplan.LessonInput) (*lessonplan.GeneratedContent, error) {
	start := time.Now()
	content, err := g.generate(ctx, input)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		kind := KindOf(err)
		metrics.GenerationTotal.WithLabelValues(kind.String()).Inc()
		g.log.Warn("lesson plan generation failed",
			"kind", kind.String(), "subject", input.Subject, "week", input.Week, "error", err)
		return nil, err
	}

	metrics.GenerationTotal.WithLabelValues("ok").Inc()
	g.log.Info("lesson plan generated",
		"subject", input.Subject, "topic", input.Topic, "week", input.Week,
		"steps", len(content.DevelopmentSteps), "elapsed", time.Since(start))
	return content, nil
}

func (g *Generator) generate(ctx context.Context, input lessonplan.LessonInput) (*lessonplan.GeneratedContent, error) {
	ctx = llm.WithPurpose(ctx, Purpose)
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildPrompt(input)}},
		Schema:      LessonPlanSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &GenerationError{Kind: classify(err), Err: err}
	}
	return decodeContent(resp.Content)
}

// decodeContent parses a payload, walks it against ContentSpec and maps it
// into the domain type.
func decodeContent(raw json.RawMessage) (*lessonplan.GeneratedContent, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &GenerationError{Kind: EmptyResponse, Err: llm.ErrEmptyResponse}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &GenerationError{Kind: MalformedPayload, Err: fmt.Errorf("parse payload: %w", err)}
	}
	if err := ContentSpec.Check("", doc); err != nil {
		return nil, &GenerationError{Kind: MalformedPayload, Err: err}
	}

	var content lessonplan.GeneratedContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, &GenerationError{Kind: MalformedPayload, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return &content, nil
}
