package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"market-digest/internal/store"
	"market-digest/internal/types"
)

type stubQuotes struct{ series map[string][]float64 }

func (s *stubQuotes) Name() string { return "stub" }

func (s *stubQuotes) FetchDailyBars(ctx context.Context, ticker string, days int) ([]types.Candle, error) {
	closes, ok := s.series[ticker]
	if !ok {
		return nil, errors.New("no data")
	}
	bars := make([]types.Candle, len(closes))
	for i, c := range closes {
		bars[i] = types.Candle{Ts: int64(i), Close: c}
	}
	return bars, nil
}

type stubSentiment struct{ reading types.SentimentReading }

func (s *stubSentiment) Fetch(ctx context.Context) types.SentimentReading { return s.reading }

type stubNews struct{ articles []types.RawArticle }

func (s *stubNews) Name() string { return "stub" }

func (s *stubNews) Search(ctx context.Context, query string) []types.RawArticle {
	return s.articles
}

type failingSummarizer struct{}

func (failingSummarizer) Summarize(ctx context.Context, art types.RawArticle, accepted []string) (types.Analysis, error) {
	return types.Analysis{}, errors.New("provider down")
}

func pipelineConfig() *store.Config {
	cfg := &store.Config{
		Watchlist: []store.WatchCategory{{
			Category: "indices",
			Symbols:  []store.SymbolEntry{{Name: "S&P 500", Ticker: "^GSPC"}},
		}},
	}
	cfg.Indicators.RSIPeriod = 14
	cfg.Indicators.SMAPeriod = 50
	cfg.Indicators.LookbackDays = 90
	cfg.News.Categories = []store.NewsCategory{{Category: "macro", Query: "fed"}}
	cfg.Curation.MaxPerCategory = 3
	cfg.Curation.CallDelaySecs = 0
	return cfg
}

func steadySeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 100 + float64(i)*0.1
	}
	return s
}

// A dead summarizer and a dead sentiment source must not disturb the
// asset section: each pipeline component degrades independently.
func TestRunComponentIndependence(t *testing.T) {
	eng := New(pipelineConfig(),
		&stubQuotes{series: map[string][]float64{"^GSPC": steadySeries(60)}},
		&stubSentiment{reading: types.UnavailableSentiment()},
		&stubNews{articles: []types.RawArticle{
			{Title: "Fed holds rates", Description: "steady", URL: "https://example.com/a"},
		}},
		failingSummarizer{},
	)

	snap := eng.Run(context.Background())

	if len(snap.Assets["indices"]) != 1 {
		t.Errorf("asset section must survive news/sentiment failures, got %v", snap.Assets)
	}
	if snap.Sentiment.Value.Valid {
		t.Error("sentiment must be the unavailable sentinel")
	}
	if len(snap.Articles) != 1 {
		t.Fatalf("expected fallback article, got %d", len(snap.Articles))
	}
	if snap.Articles[0].Title != "Fed holds rates" || snap.Articles[0].Impact != types.ImpactUnrated {
		t.Errorf("expected original-title unrated fallback, got %+v", snap.Articles[0])
	}
}

func TestRunTimestampTakenAtStart(t *testing.T) {
	eng := New(pipelineConfig(),
		&stubQuotes{series: map[string][]float64{}},
		&stubSentiment{reading: types.UnavailableSentiment()},
		&stubNews{},
		failingSummarizer{},
	)
	at := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	eng.now = func() time.Time { return at }

	snap := eng.Run(context.Background())
	if snap.UpdateTime != "2026-03-14T08:30:00Z" {
		t.Errorf("unexpected update_time %s", snap.UpdateTime)
	}
}

func TestRunEmptyWorldStillProducesSnapshot(t *testing.T) {
	eng := New(pipelineConfig(),
		&stubQuotes{series: map[string][]float64{}},
		&stubSentiment{reading: types.UnavailableSentiment()},
		&stubNews{},
		failingSummarizer{},
	)

	snap := eng.Run(context.Background())
	if snap.Assets == nil || snap.Articles == nil {
		t.Error("collections must be present even when every source failed")
	}
	if _, ok := snap.Assets["indices"]; !ok {
		t.Error("configured category must appear with an empty list")
	}
}
