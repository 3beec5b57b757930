package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a generative model and returns its output.
type Provider interface {
	// Generate performs a single model call. When req.Schema is set the
	// provider asks for JSON matching it and validates the reply before
	// returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Lesson-plan generation sends a single
	// user message.
	Messages []Message

	// Schema, when set, switches the provider to its native structured
	// output mode. When nil, Content is the raw reply text.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema the reply must conform to.
type Schema struct {
	// Name identifies the schema to the provider and keys the validator
	// cache. Kebab-case, e.g. "lesson-plan".
	Name string

	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the validated JSON object when a Schema was requested,
	// otherwise the raw reply text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
