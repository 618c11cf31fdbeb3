package curator

import (
	"context"
	"sort"
	"time"

	"market-digest/internal/interfaces"
	"market-digest/internal/logger"
	"market-digest/internal/store"
	"market-digest/internal/trace"
	"market-digest/internal/types"
)

// Curator turns raw provider articles into the ranked curated list. Per
// category it runs the candidates through the AI summarizer in provider
// order until the acceptance cap is reached, deduplicates topics inside the
// batch, and degrades to original-language passthrough whenever analysis
// fails. AI calls are strictly sequential with a fixed inter-call delay;
// pacing is cooperative, not a token bucket.
type Curator struct {
	cfg        *store.Config
	provider   interfaces.NewsProvider
	summarizer interfaces.Summarizer

	// injectable for tests
	sleep func(time.Duration)
	now   func() time.Time
}

func New(cfg *store.Config, provider interfaces.NewsProvider, summarizer interfaces.Summarizer) *Curator {
	return &Curator{
		cfg:        cfg,
		provider:   provider,
		summarizer: summarizer,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

// batch is the per-category accumulator: dedup state lives here and is
// discarded at the category boundary, never shared across categories.
type batch struct {
	category       string
	acceptedTitles []string        // target-language titles accepted so far
	seenSource     map[string]bool // byte-identical source-title prededup
	capUsed        int
	out            []types.CuratedArticle
}

func newBatch(category string) *batch {
	return &batch{category: category, seenSource: make(map[string]bool)}
}

// Run processes every configured news category and returns the combined
// list sorted by importance score descending; equal scores keep their
// discovery order.
func (c *Curator) Run(ctx context.Context) []types.CuratedArticle {
	ctx, span := trace.StartSpan(ctx, "curate-news")
	defer span.End()

	all := []types.CuratedArticle{}
	for _, nc := range c.cfg.News.Categories {
		raw := c.provider.Search(ctx, nc.Query)
		curated := c.CurateCategory(ctx, nc.Category, raw)
		logger.Info(ctx, "Category curated", "category", nc.Category,
			"candidates", len(raw), "curated", len(curated))
		all = append(all, curated...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	return all
}

// CurateCategory runs one category batch. Exported so the per-category
// reducer can be exercised in isolation.
func (c *Curator) CurateCategory(ctx context.Context, category string, articles []types.RawArticle) []types.CuratedArticle {
	b := newBatch(category)
	for _, art := range articles {
		if b.capUsed >= c.cfg.Curation.MaxPerCategory {
			break
		}
		c.consider(ctx, b, art)
	}
	return b.out
}

// consider advances the accumulator by one candidate.
func (c *Curator) consider(ctx context.Context, b *batch, art types.RawArticle) {
	if b.seenSource[art.Title] {
		logger.Debug(ctx, "Skipping identical source title", "title", art.Title)
		return
	}
	b.seenSource[art.Title] = true

	analysis, err := c.summarizer.Summarize(ctx, art, b.acceptedTitles)
	c.sleep(time.Duration(c.cfg.Curation.CallDelaySecs) * time.Second)

	if err != nil {
		logger.Degraded(ctx, "curator", "analysis failed, falling back to passthrough",
			"category", b.category, "title", art.Title, "error", err)
		b.out = append(b.out, types.CuratedArticle{
			Category: b.category,
			Title:    art.Title,
			Summary:  art.Description,
			Impact:   types.ImpactUnrated,
			Score:    0,
			Link:     art.URL,
			Date:     c.articleDate(art),
		})
		if c.cfg.Curation.FallbackCountsTowardCap {
			b.capUsed++
		}
		return
	}

	if analysis.Score == 0 {
		// duplicate or irrelevant per the model: discard without
		// consuming the cap
		logger.Debug(ctx, "Discarding zero-score article",
			"category", b.category, "title", art.Title)
		return
	}

	// The model is instructed to score duplicates 0, but the batch still
	// enforces accepted-title uniqueness itself.
	for _, accepted := range b.acceptedTitles {
		if accepted == analysis.Title {
			logger.Debug(ctx, "Discarding duplicate accepted title",
				"category", b.category, "title", analysis.Title)
			return
		}
	}

	b.out = append(b.out, types.CuratedArticle{
		Category: b.category,
		Title:    analysis.Title,
		Summary:  analysis.Summary,
		Impact:   analysis.Impact,
		Score:    analysis.Score,
		Link:     art.URL,
		Date:     c.articleDate(art),
	})
	b.acceptedTitles = append(b.acceptedTitles, analysis.Title)
	b.capUsed++
}

// articleDate falls back to the run date when the provider gave no
// publish time (scraped articles often carry none).
func (c *Curator) articleDate(art types.RawArticle) string {
	if art.PublishedAt != "" {
		return art.PublishedAt
	}
	return c.now().Format("2006-01-02")
}
