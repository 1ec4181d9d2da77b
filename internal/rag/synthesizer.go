package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rag-assistant/internal/models"
	"rag-assistant/internal/prompts"
)

// Deployment modes for the synthesis stage.
const (
	ModeNarrative   = "narrative"
	ModeSuggestions = "suggestions"
)

// Synthesizer produces the final answer strictly from the filtered chunks.
// Unlike the filter it does not fail open: a model error or malformed JSON
// in suggestions mode propagates to the caller.
type Synthesizer struct {
	llm    Completer
	mode   string
	corpus string
}

func NewSynthesizer(llm Completer, mode, corpus string) *Synthesizer {
	return &Synthesizer{llm: llm, mode: mode, corpus: corpus}
}

func (s *Synthesizer) Synthesize(ctx context.Context, query string, chunks []models.Retrieved) (*models.Answer, error) {
	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			sb.WriteString(prompts.ContextSeparator)
		}
		sb.WriteString(fmt.Sprintf("Source: %s\n%s", c.Source, c.Text))
	}
	contextBlock := sb.String()

	if s.mode == ModeSuggestions {
		return s.synthesizeSuggestions(ctx, query, contextBlock)
	}
	return s.synthesizeNarrative(ctx, query, contextBlock, chunks)
}

func (s *Synthesizer) synthesizeNarrative(ctx context.Context, query, contextBlock string, chunks []models.Retrieved) (*models.Answer, error) {
	prompt, err := prompts.Render(prompts.FinalAnswer, map[string]string{
		"corpus":  s.corpus,
		"context": contextBlock,
		"query":   query,
	})
	if err != nil {
		return nil, err
	}
	text, err := s.llm.Complete(ctx, prompt, false, 0.2)
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}
	sources := make([]models.Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, models.Source{Text: c.Text, Filename: c.Source})
	}
	return &models.Answer{Text: text, Sources: sources}, nil
}

func (s *Synthesizer) synthesizeSuggestions(ctx context.Context, query, contextBlock string) (*models.Answer, error) {
	prompt, err := prompts.Render(prompts.Suggestions, map[string]string{
		"context": contextBlock,
		"query":   query,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.llm.Complete(ctx, prompt, true, 0.2)
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}
	var out struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		return nil, fmt.Errorf("synthesis returned malformed JSON: %w", err)
	}
	if out.Suggestions == nil {
		// An empty list is a valid "no improvement found" response.
		out.Suggestions = []models.Suggestion{}
	}
	return &models.Answer{Suggestions: out.Suggestions}, nil
}
