package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"market-digest/internal/interfaces"
	"market-digest/internal/llm/claude"
	"market-digest/internal/llm/llmobs"
	"market-digest/internal/llm/noop"
	"market-digest/internal/llm/openai"
	"market-digest/internal/logger"
	"market-digest/internal/news"
	"market-digest/internal/store"
	"market-digest/internal/trace"
)

// initializeSystem loads environment variables and sets up logging and
// tracing before anything else runs.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// initializeNewsProvider picks the news source for the run. Without a
// NEWS_API_KEY the NewsAPI component is disabled and the credential-free
// Google News scraper takes its place, so the pipeline still produces
// articles.
func initializeNewsProvider(ctx context.Context, cfg *store.Config) interfaces.NewsProvider {
	if key := os.Getenv("NEWS_API_KEY"); key != "" {
		return news.NewNewsAPIClient(cfg, key)
	}
	logger.Warn(ctx, "NEWS_API_KEY missing - falling back to Google News scraping")
	return news.NewGoogleNewsScraper(cfg.News.PageSize)
}

// initializeSummarizer picks the AI summarizer with observability. With no
// provider configured every article passes through unrated.
func initializeSummarizer(ctx context.Context, cfg *store.Config) interfaces.Summarizer {
	var summarizer interfaces.Summarizer

	switch cfg.LLM.Provider {
	case "OPENAI":
		summarizer = openai.NewOpenAISummarizer(cfg)
	case "CLAUDE":
		summarizer = claude.NewClaudeSummarizer(cfg)
	default:
		summarizer = noop.NewNoopSummarizer()
		logger.Warn(ctx, "No LLM provider configured - articles will pass through unrated")
	}

	return llmobs.Wrap(summarizer)
}
