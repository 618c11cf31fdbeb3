package llmobs

import (
	"context"

	"market-digest/internal/interfaces"
	"market-digest/internal/logger"
	"market-digest/internal/trace"
	"market-digest/internal/types"
)

// observableSummarizer wraps a Summarizer with logging and tracing
type observableSummarizer struct {
	summarizer interfaces.Summarizer
}

// Compile-time interface check
var _ interfaces.Summarizer = (*observableSummarizer)(nil)

// Wrap wraps a summarizer with observability middleware
func Wrap(summarizer interfaces.Summarizer) interfaces.Summarizer {
	return &observableSummarizer{summarizer: summarizer}
}

func (os *observableSummarizer) Summarize(ctx context.Context, article types.RawArticle, acceptedTitles []string) (types.Analysis, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Summarize")
	defer span.End()

	logger.Debug(ctx, "Requesting article analysis",
		"title", article.Title,
		"accepted_in_batch", len(acceptedTitles),
	)

	analysis, err := os.summarizer.Summarize(ctx, article, acceptedTitles)
	if err != nil {
		logger.ErrorWithErr(ctx, "Article analysis failed", err, "title", article.Title)
		return types.Analysis{}, err
	}

	logger.Info(ctx, "Article analysis received",
		"title", analysis.Title,
		"impact", analysis.Impact,
		"score", analysis.Score,
	)
	return analysis, nil
}
