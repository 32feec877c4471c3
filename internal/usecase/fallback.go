package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"faq-agent/internal/integrations/openai"
)

const (
	fallbackSystemPrompt = "You are the Iron Lady assistant. Be concise and friendly."
	fallbackTemperature  = 0.5
	fallbackMaxTokens    = 200
)

// Completer is the remote completion capability used for unmatched questions.
type Completer interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// FallbackResult is the outcome of one fallback attempt. OK is false when
// the responder is unavailable or the remote call failed.
type FallbackResult struct {
	Answer string
	OK     bool
}

// FallbackResponder forwards unmatched questions to a Completer.
type FallbackResponder struct {
	completer Completer
	logger    *slog.Logger
}

// NewFallbackResponder returns a responder backed by completer. A nil
// completer is valid and yields a responder that is never available.
func NewFallbackResponder(completer Completer, logger *slog.Logger) *FallbackResponder {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackResponder{completer: completer, logger: logger}
}

// Available reports whether a completion capability is configured.
func (f *FallbackResponder) Available() bool {
	return f != nil && f.completer != nil
}

// Complete makes at most one remote call. Failures are logged, never returned.
func (f *FallbackResponder) Complete(ctx context.Context, input string) FallbackResult {
	if !f.Available() {
		return FallbackResult{}
	}

	raw, err := f.completer.Complete(ctx, openai.CompletionRequest{
		System:      fallbackSystemPrompt,
		User:        input,
		Temperature: fallbackTemperature,
		MaxTokens:   fallbackMaxTokens,
	})
	if err != nil {
		attrs := []any{"err", err}
		if status, ok := upstreamStatusCode(err); ok {
			attrs = append(attrs, "status", status)
		}
		f.logger.WarnContext(ctx, "fallback completion failed", attrs...)
		return FallbackResult{}
	}

	answer := strings.TrimSpace(raw)
	if answer == "" {
		f.logger.WarnContext(ctx, "fallback completion returned empty text")
		return FallbackResult{}
	}
	return FallbackResult{Answer: answer, OK: true}
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}
