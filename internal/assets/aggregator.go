package assets

import (
	"context"

	"market-digest/internal/interfaces"
	"market-digest/internal/logger"
	"market-digest/internal/store"
	"market-digest/internal/ta"
	"market-digest/internal/trace"
	"market-digest/internal/types"
)

// Aggregator walks the configured watchlist, fetches price history per
// symbol, and produces technical snapshots grouped by category. A failed
// or thin symbol is skipped and logged; the run never aborts on one
// symbol. One fetch attempt per symbol per run; the next scheduled run is
// the retry.
type Aggregator struct {
	cfg     *store.Config
	fetcher interfaces.QuoteFetcher
}

func New(cfg *store.Config, fetcher interfaces.QuoteFetcher) *Aggregator {
	return &Aggregator{cfg: cfg, fetcher: fetcher}
}

// Collect returns per-category snapshot lists in watchlist order. Categories
// whose symbols all failed still appear, with empty lists, so the output
// shape stays stable.
func (a *Aggregator) Collect(ctx context.Context) map[string][]types.AssetSnapshot {
	ctx, span := trace.StartSpan(ctx, "assets-collect")
	defer span.End()

	out := make(map[string][]types.AssetSnapshot, len(a.cfg.Watchlist))
	for _, wc := range a.cfg.Watchlist {
		snaps := make([]types.AssetSnapshot, 0, len(wc.Symbols))
		for _, sym := range wc.Symbols {
			snap, ok := a.analyzeSymbol(ctx, wc, sym)
			if !ok {
				continue
			}
			snaps = append(snaps, snap)
		}
		logger.Info(ctx, "Category collected", "category", wc.Category,
			"symbols", len(wc.Symbols), "snapshots", len(snaps))
		out[wc.Category] = snaps
	}
	return out
}

func (a *Aggregator) analyzeSymbol(ctx context.Context, wc store.WatchCategory, sym store.SymbolEntry) (types.AssetSnapshot, bool) {
	bars, err := a.fetcher.FetchDailyBars(ctx, sym.Ticker, a.cfg.Indicators.LookbackDays)
	if err != nil {
		logger.Degraded(ctx, "assets", "fetch failed",
			"ticker", sym.Ticker, "source", a.fetcher.Name(), "error", err)
		return types.AssetSnapshot{}, false
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	if len(closes) < a.requiredPoints(wc) {
		logger.Degraded(ctx, "assets", "series too short",
			"ticker", sym.Ticker, "bars", len(closes), "required", a.requiredPoints(wc))
		return types.AssetSnapshot{}, false
	}

	change, percent, err := ta.LatestReturn(closes)
	if err != nil {
		logger.Degraded(ctx, "assets", "return unavailable", "ticker", sym.Ticker, "error", err)
		return types.AssetSnapshot{}, false
	}

	snap := types.AssetSnapshot{
		Name:    sym.Name,
		Price:   types.Round2(closes[len(closes)-1]),
		Change:  types.Round2(change),
		Percent: types.Round2(percent),
		Trend:   types.TrendNotApplicable,
	}

	if !wc.SuppressRSI {
		if rsi, err := ta.RSI(closes, a.cfg.Indicators.RSIPeriod); err == nil {
			snap.RSI = types.RSIOf(rsi)
		}
	}
	if !wc.TrendExempt {
		sma, err := ta.SMA(closes, a.cfg.Indicators.SMAPeriod)
		if err != nil {
			logger.Degraded(ctx, "assets", "sma unavailable", "ticker", sym.Ticker, "error", err)
			return types.AssetSnapshot{}, false
		}
		snap.Trend = ta.ClassifyTrend(closes[len(closes)-1], sma)
	}
	return snap, true
}

// requiredPoints is the minimum series length for the category: the longest
// indicator window that applies, plus one for the prior close. Shorter
// series are excluded, never zero-filled.
func (a *Aggregator) requiredPoints(wc store.WatchCategory) int {
	window := 0
	if !wc.TrendExempt && a.cfg.Indicators.SMAPeriod > window {
		window = a.cfg.Indicators.SMAPeriod
	}
	if !wc.SuppressRSI && a.cfg.Indicators.RSIPeriod > window {
		window = a.cfg.Indicators.RSIPeriod
	}
	if window == 0 {
		return 2
	}
	return window + 1
}
