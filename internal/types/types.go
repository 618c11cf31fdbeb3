package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// Candle is a single daily bar as returned by the quote source.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Trend classifies a price against its moving average.
type Trend string

const (
	TrendBullish       Trend = "bullish"
	TrendBearish       Trend = "bearish"
	TrendRanging       Trend = "ranging"
	TrendNotApplicable Trend = "not_applicable"
)

// MarketImpact is the AI-assigned directional read of a news article.
// ImpactUnrated marks fallback articles emitted without AI analysis.
type MarketImpact string

const (
	ImpactBullish MarketImpact = "bullish"
	ImpactBearish MarketImpact = "bearish"
	ImpactNeutral MarketImpact = "neutral"
	ImpactUnrated MarketImpact = "unrated"
)

// RSIValue is an RSI reading that serializes as a number, or as the
// string "unavailable" when the series was too short to compute it.
type RSIValue struct {
	Valid bool
	Value float64
}

func RSIOf(v float64) RSIValue { return RSIValue{Valid: true, Value: v} }

func (r RSIValue) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return json.Marshal("unavailable")
	}
	return json.Marshal(Round2(r.Value))
}

func (r *RSIValue) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*r = RSIValue{Valid: true, Value: f}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("rsi: expected number or \"unavailable\": %w", err)
	}
	if s != "unavailable" {
		return fmt.Errorf("rsi: unexpected string %q", s)
	}
	*r = RSIValue{}
	return nil
}

// AssetSnapshot is one symbol's computed technical state for a run.
// change and percent are derived from the latest and previous close and
// rounded to 2 decimals; the (price, change, percent) triple stays
// internally consistent under that rounding.
type AssetSnapshot struct {
	Name    string   `json:"name"`
	Price   float64  `json:"price"`
	Change  float64  `json:"change"`
	Percent float64  `json:"percent"`
	RSI     RSIValue `json:"rsi"`
	Trend   Trend    `json:"trend"`
}

// SentimentValue serializes as an integer 0-100 or "unavailable".
type SentimentValue struct {
	Valid bool
	Value int
}

func SentimentOf(v int) SentimentValue { return SentimentValue{Valid: true, Value: v} }

func (v SentimentValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return json.Marshal("unavailable")
	}
	return json.Marshal(v.Value)
}

func (v *SentimentValue) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*v = SentimentValue{Valid: true, Value: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("sentiment value: expected integer or \"unavailable\": %w", err)
	}
	if s != "unavailable" {
		return fmt.Errorf("sentiment value: unexpected string %q", s)
	}
	*v = SentimentValue{}
	return nil
}

// SentimentReading is the fear/greed index for the run.
type SentimentReading struct {
	Value          SentimentValue `json:"value"`
	Classification string         `json:"classification"`
}

// UnavailableSentiment is the sentinel used when the sentiment source
// fails; its absence never fails the run.
func UnavailableSentiment() SentimentReading {
	return SentimentReading{Classification: "unknown"}
}

// RawArticle is a provider article before curation. Ephemeral, consumed
// within one run.
type RawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// Analysis is the single structured record the AI summarizer returns for
// one article.
type Analysis struct {
	Title   string       `json:"title"`
	Summary string       `json:"summary"`
	Impact  MarketImpact `json:"market_impact"`
	Score   int          `json:"importance_score"`
}

// CuratedArticle is an accepted (or fallback) article in the final digest.
type CuratedArticle struct {
	Category string       `json:"category"`
	Title    string       `json:"title"`
	Summary  string       `json:"summary"`
	Impact   MarketImpact `json:"market_impact"`
	Score    int          `json:"importance_score"`
	Link     string       `json:"link"`
	Date     string       `json:"date"`
}

// Snapshot is the root document written once per run. Field names are
// the public contract with the downstream dashboard and must stay stable.
type Snapshot struct {
	UpdateTime string                     `json:"update_time"`
	Sentiment  SentimentReading           `json:"sentiment"`
	Assets     map[string][]AssetSnapshot `json:"assets_by_category"`
	Articles   []CuratedArticle           `json:"curated_articles"`
}

// Round2 rounds to 2 decimal places, the documented output precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
