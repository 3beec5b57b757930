package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // LLM events only; empty matches all
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// ExportEventData records one document export.
type ExportEventData struct {
	Format       string // pdf, doc or print
	Scope        string // draft or collection
	Subject      string
	PlanCount    int
	Path         string
	Bytes        int64
	Printed      bool
	ErrorMessage string
}

// ExportEvent is a stored export event.
type ExportEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ExportEventData
}

// UsageStat aggregates LLM calls grouped by purpose or model.
type UsageStat struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append access to logged events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendExport records a document export.
	AppendExport(ctx context.Context, data ExportEventData) error
}
