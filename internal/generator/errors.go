package generator

import (
	"errors"
	"fmt"

	"github.com/abhisek/planbook/internal/llm"
)

// UserMessage is the single message every generation failure is shown as.
const UserMessage = "Failed to generate lesson plan. Please check your network connection or API key."

// Kind classifies a failed generation.
type Kind int

const (
	// NetworkFailure covers transport errors and provider-side failures.
	NetworkFailure Kind = iota + 1
	// EmptyResponse means the service answered without any payload text.
	EmptyResponse
	// MalformedPayload means the payload could not be parsed, was truncated,
	// or lacked required keys.
	MalformedPayload
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network_failure"
	case EmptyResponse:
		return "empty_response"
	case MalformedPayload:
		return "malformed_payload"
	}
	return "unknown"
}

// GenerationError is returned by Generate for every failure.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate lesson plan (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage returns the text shown to the teacher.
func (e *GenerationError) UserMessage() string { return UserMessage }

// KindOf returns the Kind of err, or 0 when err is not a GenerationError.
func KindOf(err error) Kind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}

// classify maps provider errors onto generation error kinds.
func classify(err error) Kind {
	if errors.Is(err, llm.ErrEmptyResponse) {
		return EmptyResponse
	}
	var inv *llm.ErrInvalidResponse
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &inv) || errors.As(err, &maxTok) {
		return MalformedPayload
	}
	return NetworkFailure
}
