package digest

import (
	"context"
	"time"

	"market-digest/internal/assets"
	"market-digest/internal/curator"
	"market-digest/internal/interfaces"
	"market-digest/internal/logger"
	"market-digest/internal/snapshot"
	"market-digest/internal/store"
	"market-digest/internal/types"
)

// Engine drives one digest run: assets, sentiment, and news curation in
// sequence, then the snapshot merge. Everything is blocking and
// sequential on purpose; third-party rate limits are respected by pacing,
// not concurrency. No stage failure aborts the run.
type Engine struct {
	cfg       *store.Config
	assets    *assets.Aggregator
	sentiment interfaces.SentimentProvider
	curator   *curator.Curator

	now func() time.Time
}

func New(cfg *store.Config, quotes interfaces.QuoteFetcher, sent interfaces.SentimentProvider, news interfaces.NewsProvider, summarizer interfaces.Summarizer) *Engine {
	return &Engine{
		cfg:       cfg,
		assets:    assets.New(cfg, quotes),
		sentiment: sent,
		curator:   curator.New(cfg, news, summarizer),
		now:       time.Now,
	}
}

// Run executes the pipeline once and returns the assembled snapshot. The
// run timestamp is taken once at the start and identifies this logical
// run; re-invocation is always safe because the only persisted state is
// the overwritten snapshot file.
func (e *Engine) Run(ctx context.Context) types.Snapshot {
	runAt := e.now()

	st := logger.StartStage(ctx, "collect-assets")
	byCategory := e.assets.Collect(st.Context())
	st.End("categories", len(byCategory))

	st = logger.StartStage(ctx, "fetch-sentiment")
	reading := e.sentiment.Fetch(st.Context())
	st.End("available", reading.Value.Valid)

	st = logger.StartStage(ctx, "curate-news")
	articles := e.curator.Run(st.Context())
	st.End("articles", len(articles))

	return snapshot.Assemble(runAt, reading, byCategory, articles)
}
