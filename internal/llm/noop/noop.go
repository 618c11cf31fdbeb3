package noop

import (
	"context"

	"market-digest/internal/llm"
	"market-digest/internal/logger"
	"market-digest/internal/types"
)

// NoopSummarizer is used when no LLM provider is configured. Every call
// reports analysis unavailable, which routes each article through the
// curation fallback: original title and description, unrated impact.
type NoopSummarizer struct{}

func NewNoopSummarizer() *NoopSummarizer {
	return &NoopSummarizer{}
}

func (s *NoopSummarizer) Summarize(ctx context.Context, article types.RawArticle, acceptedTitles []string) (types.Analysis, error) {
	logger.Debug(ctx, "Noop summarizer called - article passes through unrated", "title", article.Title)
	return types.Analysis{}, llm.ErrNotConfigured
}
