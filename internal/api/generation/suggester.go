package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kazantrip/routegen/internal/types"
)

// TextGenerator is the boundary to the external text-generation service.
// Injected so tests can substitute a deterministic fake.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Suggester proposes attraction names for the llm and hybrid modes.
type Suggester interface {
	Suggest(ctx context.Context, pref types.Preference, candidateNames []string) []string
}

var _ Suggester = (*SuggestionAdapter)(nil)

// SuggestionAdapter builds a structured prompt from the preference and the
// sanctioned candidate names, makes exactly one bounded call to the
// text-generation service, and parses the response into a finite name
// list. Every failure is logged and recovered into an empty list: the
// caller degrades to pure algorithmic generation, never hard-fails.
type SuggestionAdapter struct {
	gen            TextGenerator
	logger         *slog.Logger
	timeout        time.Duration
	maxSuggestions int
}

func NewSuggestionAdapter(gen TextGenerator, timeout time.Duration, maxSuggestions int, logger *slog.Logger) *SuggestionAdapter {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if maxSuggestions <= 0 {
		maxSuggestions = 10
	}
	return &SuggestionAdapter{
		gen:            gen,
		logger:         logger,
		timeout:        timeout,
		maxSuggestions: maxSuggestions,
	}
}

func (a *SuggestionAdapter) Suggest(ctx context.Context, pref types.Preference, candidateNames []string) []string {
	if a.gen == nil {
		a.logger.WarnContext(ctx, "no text generator configured, skipping suggestions")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := buildSuggestionPrompt(pref, candidateNames, a.maxSuggestions)
	raw, err := a.gen.GenerateContent(ctx, prompt)
	if err != nil {
		// One attempt only; retries would stretch worst-case latency
		// past what a generation request tolerates.
		a.logger.WarnContext(ctx, "suggestion call failed, degrading to algorithmic selection",
			slog.Any("error", fmt.Errorf("%w: %v", types.ErrExternalService, err)))
		return nil
	}

	names := parseSuggestions(raw, a.maxSuggestions)
	if len(names) == 0 {
		a.logger.WarnContext(ctx, "suggestion response contained no usable attraction names",
			slog.Int("response_len", len(raw)))
	}
	return names
}
