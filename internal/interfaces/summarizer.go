package interfaces

import (
	"context"

	"market-digest/internal/types"
)

// Summarizer translates and scores one article. acceptedTitles carries the
// target-language titles already accepted in the current category batch so
// the model can assign score 0 to near-duplicate topics.
type Summarizer interface {
	Summarize(ctx context.Context, article types.RawArticle, acceptedTitles []string) (types.Analysis, error)
}
