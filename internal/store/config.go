package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Categories the watchlist and news queries may use. The set is closed:
// downstream dashboard panels key off these names.
var validCategories = map[string]bool{
	"indices":     true,
	"crypto":      true,
	"macro":       true,
	"commodities": true,
	"futures":     true,
	"sectors":     true,
	"shipping":    true,
}

// SymbolEntry is one watchlist row: display name plus provider ticker.
// Immutable for the lifetime of a run.
type SymbolEntry struct {
	Name   string `yaml:"name"`
	Ticker string `yaml:"ticker"`
}

// WatchCategory groups symbols under a category in configured order.
// TrendExempt marks classes (volatility indexes, FX pairs) that report
// trend "not_applicable" as a domain rule. SuppressRSI likewise drops the
// RSI reading for the whole category.
type WatchCategory struct {
	Category    string        `yaml:"category"`
	TrendExempt bool          `yaml:"trend_exempt"`
	SuppressRSI bool          `yaml:"suppress_rsi"`
	Symbols     []SymbolEntry `yaml:"symbols"`
}

// NewsCategory pairs a category with its keyword disjunction query.
type NewsCategory struct {
	Category string `yaml:"category"`
	Query    string `yaml:"query"`
}

type Config struct {
	Watchlist []WatchCategory `yaml:"watchlist"`

	Indicators struct {
		RSIPeriod    int `yaml:"rsi_period"`
		SMAPeriod    int `yaml:"sma_period"`
		LookbackDays int `yaml:"lookback_days"`
	} `yaml:"indicators"`

	News struct {
		PageSize       int            `yaml:"page_size"`
		SortBy         string         `yaml:"sort_by"` // publishedAt or popularity
		Domains        []string       `yaml:"domains"`
		ExcludeDomains []string       `yaml:"exclude_domains"`
		Categories     []NewsCategory `yaml:"categories"`
	} `yaml:"news"`

	Curation struct {
		MaxPerCategory int    `yaml:"max_per_category"`
		CallDelaySecs  int    `yaml:"call_delay_seconds"`
		TargetLanguage string `yaml:"target_language"`
		// FallbackCountsTowardCap decides whether an article emitted via
		// the AI-failure fallback consumes a slot of the category cap.
		FallbackCountsTowardCap bool `yaml:"fallback_counts_toward_cap"`
	} `yaml:"curation"`

	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`

	Sentiment struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"sentiment"`

	Output struct {
		Path string `yaml:"path"`
	} `yaml:"output"`
}

func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return errors.New("watchlist cannot be empty")
	}
	for _, wc := range c.Watchlist {
		if !validCategories[wc.Category] {
			return fmt.Errorf("invalid watchlist category '%s'", wc.Category)
		}
		if len(wc.Symbols) == 0 {
			return fmt.Errorf("watchlist category '%s' has no symbols", wc.Category)
		}
	}
	for _, nc := range c.News.Categories {
		if !validCategories[nc.Category] {
			return fmt.Errorf("invalid news category '%s'", nc.Category)
		}
		if nc.Query == "" {
			return fmt.Errorf("news category '%s' has an empty query", nc.Category)
		}
	}
	if c.News.SortBy != "publishedAt" && c.News.SortBy != "popularity" {
		return fmt.Errorf("news.sort_by must be 'publishedAt' or 'popularity', got '%s'", c.News.SortBy)
	}
	if c.Indicators.RSIPeriod <= 0 || c.Indicators.SMAPeriod <= 0 {
		return errors.New("indicator periods must be positive")
	}
	if c.Curation.CallDelaySecs < 1 || c.Curation.CallDelaySecs > 5 {
		return fmt.Errorf("curation.call_delay_seconds must be 1-5, got %d", c.Curation.CallDelaySecs)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.SMAPeriod == 0 {
		c.Indicators.SMAPeriod = 50
	}
	if c.Indicators.LookbackDays == 0 {
		c.Indicators.LookbackDays = 90
	}
	if c.News.PageSize == 0 {
		c.News.PageSize = 10
	}
	if c.News.SortBy == "" {
		c.News.SortBy = "publishedAt"
	}
	if c.Curation.MaxPerCategory == 0 {
		c.Curation.MaxPerCategory = 3
	}
	if c.Curation.CallDelaySecs == 0 {
		c.Curation.CallDelaySecs = 2
	}
	if c.Curation.TargetLanguage == "" {
		c.Curation.TargetLanguage = "Traditional Chinese"
	}
	if c.Sentiment.Endpoint == "" {
		c.Sentiment.Endpoint = "https://api.alternative.me/fng/"
	}
	if c.Output.Path == "" {
		c.Output.Path = "daily_digest.json"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
