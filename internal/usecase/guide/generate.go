package guide

import (
	"context"
	"errors"
	"strings"

	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/llm"
)

// Completer is a single-turn chat completion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

var (
	errNotConfigured = httperr.ErrUpstream("llm_not_configured", "LLM service is not configured. Please set OPENAI_API_KEY in your environment variables.")
	errBadKey        = httperr.ErrUpstream("llm_invalid_key", "Invalid API key configuration. Please check your OPENAI_API_KEY.")
	errEmpty         = httperr.ErrUpstream("llm_empty", "Failed to generate training guide")
	errFailed        = httperr.ErrUpstream("llm_failed", "Failed to generate training guide. Please try again later.")
)

type GenerateGuide struct {
	llm Completer
}

// NewGenerateGuide accepts a nil completer when no API key is configured.
func NewGenerateGuide(c Completer) *GenerateGuide {
	return &GenerateGuide{llm: c}
}

func (uc *GenerateGuide) Execute(ctx context.Context, p PetProfile) (string, error) {
	if uc.llm == nil {
		return "", errNotConfigured
	}

	p.Normalize()
	if p.Name == "" {
		return "", httperr.ErrValidation("name_required", "Pet name is required")
	}
	if len(p.TrainingGoals) == 0 {
		return "", httperr.ErrValidation("training_goals_required", "At least one training goal is required")
	}

	out, err := uc.llm.Complete(ctx, SystemPrompt, BuildUserPrompt(p))
	switch {
	case errors.Is(err, llm.ErrUnauthorized):
		return "", errBadKey
	case err != nil:
		return "", errFailed
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", errEmpty
	}
	return out, nil
}
