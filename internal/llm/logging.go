package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/planbook/internal/logging"
	"github.com/abhisek/planbook/internal/metrics"
	"github.com/abhisek/planbook/internal/store"
)

// LoggingProvider records every call in the event store, the log and the
// LLM metrics.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	log      *logging.Logger
}

// WithLogging wraps p. repo may be nil when no database is open.
func WithLogging(p Provider, providerName string, repo store.EventRepo, log *logging.Logger) Provider {
	if log == nil {
		log = logging.Nop()
	}
	return &LoggingProvider{inner: p, provider: providerName, repo: repo, log: log.With("component", "llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed",
			"provider", data.Provider, "model", data.Model, "purpose", data.Purpose,
			"latency_ms", data.LatencyMs, "error", err)
	} else {
		l.log.Info("llm request",
			"provider", data.Provider, "model", data.Model, "purpose", data.Purpose,
			"latency_ms", data.LatencyMs, "input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(data.Provider, data.Model, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(data.Provider, data.Model).Observe(latency.Seconds())
	metrics.LLMTokensUsed.WithLabelValues(data.Provider, data.Model, "input").Add(float64(data.InputTokens))
	metrics.LLMTokensUsed.WithLabelValues(data.Provider, data.Model, "output").Add(float64(data.OutputTokens))

	// A failed log write never fails the request.
	if l.repo != nil {
		if logErr := l.repo.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.Error("record llm request event", "error", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the request in the readable form shown by
// `planbook llm view`.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
