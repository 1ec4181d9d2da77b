package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"rag-assistant/internal/models"
	"rag-assistant/internal/prompts"
)

// Completer is the chat-completion gateway consumed by the query stages.
type Completer interface {
	Complete(ctx context.Context, prompt string, jsonMode bool, temperature float64) (string, error)
}

// Filter asks the model which retrieved chunks are essential to the query.
// It fails open: any model or parse failure, and an empty index list, fall
// back to the full unfiltered input.
type Filter struct {
	llm Completer
}

func NewFilter(llm Completer) *Filter {
	return &Filter{llm: llm}
}

type filterDecision struct {
	RelevantChunkIndices *[]int `json:"relevant_chunk_indices"`
}

func (f *Filter) Filter(ctx context.Context, query string, results []models.Retrieved) []models.Retrieved {
	if len(results) == 0 {
		return results
	}

	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("Chunk %d: %s\n", i, r.Text))
	}
	prompt, err := prompts.Render(prompts.FilterContext, map[string]string{
		"context": sb.String(),
		"query":   query,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Filter prompt failed to render, using all chunks")
		return results
	}

	raw, err := f.llm.Complete(ctx, prompt, true, 0)
	if err != nil {
		log.Warn().Err(err).Msg("Filter model call failed, using all chunks")
		return results
	}

	indices, ok := parseFilterDecision(raw)
	if !ok || len(indices) == 0 {
		log.Warn().Str("response", raw).Msg("Filter returned no usable decision, using all chunks")
		return results
	}

	// Keep the original ranking order; out-of-range indices are dropped.
	keep := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(results) {
			keep[i] = true
		}
	}
	filtered := make([]models.Retrieved, 0, len(keep))
	for i, r := range results {
		if keep[i] {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return results
	}
	return filtered
}

// parseFilterDecision extracts the index list from the model's JSON output.
// A missing key or unparseable body reports !ok.
func parseFilterDecision(raw string) ([]int, bool) {
	var decision filterDecision
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &decision); err != nil {
		return nil, false
	}
	if decision.RelevantChunkIndices == nil {
		return nil, false
	}
	return *decision.RelevantChunkIndices, true
}

// stripCodeFence removes a markdown ```json fence if the model wrapped its
// output in one despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
