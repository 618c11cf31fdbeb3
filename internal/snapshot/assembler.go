package snapshot

import (
	"time"

	"market-digest/internal/types"
)

// Assemble is the pure merge of the pipeline outputs. All filtering and
// computation happened upstream; this only shapes the root document. Nil
// collections are normalized to empty so the serialized form never has
// missing fields.
func Assemble(at time.Time, sent types.SentimentReading, assets map[string][]types.AssetSnapshot, articles []types.CuratedArticle) types.Snapshot {
	if assets == nil {
		assets = map[string][]types.AssetSnapshot{}
	}
	if articles == nil {
		articles = []types.CuratedArticle{}
	}
	return types.Snapshot{
		UpdateTime: at.UTC().Format(time.RFC3339),
		Sentiment:  sent,
		Assets:     assets,
		Articles:   articles,
	}
}
