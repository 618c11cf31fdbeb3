package main

import (
	"context"
	"log"
	"os"
	"time"

	"market-digest/internal/digest"
	"market-digest/internal/logger"
	"market-digest/internal/quotes"
	"market-digest/internal/sentiment"
	"market-digest/internal/snapshot"
	"market-digest/internal/store"
	"market-digest/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(sctx)
	}()

	path := "config.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		os.Exit(1)
	}

	eng := digest.New(cfg,
		quotes.NewYahooFetcher(),
		sentiment.NewFearGreedClient(cfg.Sentiment.Endpoint),
		initializeNewsProvider(ctx, cfg),
		initializeSummarizer(ctx, cfg),
	)

	logger.Info(ctx, "Digest run started", "output", cfg.Output.Path)
	snap := eng.Run(ctx)

	// The only fatal condition: the snapshot must land on disk.
	if err := snapshot.Write(snap, cfg.Output.Path); err != nil {
		logger.ErrorWithErr(ctx, "Failed to write snapshot", err, "path", cfg.Output.Path)
		os.Exit(1)
	}

	logger.Info(ctx, "Digest run completed",
		"output", cfg.Output.Path,
		"articles", len(snap.Articles),
		"categories", len(snap.Assets),
	)
}
