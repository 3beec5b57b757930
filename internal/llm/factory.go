package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/planbook/internal/logging"
	"github.com/abhisek/planbook/internal/store"
)

// Options carries the collaborators the provider decorators need.
type Options struct {
	Events store.EventRepo
	Logger *logging.Logger

	// MockFallback answers mock-provider requests once its queue is empty.
	MockFallback func(Request) (json.RawMessage, error)
}

// NewProvider builds the configured provider and wraps it:
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, opts Options) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		mock := NewMockProvider()
		mock.Fallback = opts.MockFallback
		base = mock
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, opts.Events, opts.Logger)
	return WithRetry(logged, cfg.Retry), nil
}
