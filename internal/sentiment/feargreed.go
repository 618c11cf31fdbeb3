package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"market-digest/internal/logger"
	"market-digest/internal/trace"
	"market-digest/internal/types"
)

// FearGreedClient reads the crypto fear & greed index. Sentiment is
// supplementary: every failure path returns the unavailable sentinel so
// its absence never fails the run.
type FearGreedClient struct {
	client   *http.Client
	endpoint string
}

func NewFearGreedClient(endpoint string) *FearGreedClient {
	return &FearGreedClient{
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: endpoint,
	}
}

// fngResponse mirrors the alternative.me /fng/ payload; the index value
// arrives as a string.
type fngResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

func (c *FearGreedClient) Fetch(ctx context.Context) types.SentimentReading {
	ctx, span := trace.StartSpan(ctx, "sentiment-fetch")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint, nil)
	if err != nil {
		logger.Degraded(ctx, "sentiment", "bad request", "error", err)
		return types.UnavailableSentiment()
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Degraded(ctx, "sentiment", "fetch failed", "error", err)
		return types.UnavailableSentiment()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Degraded(ctx, "sentiment", "bad status", "status", resp.StatusCode)
		return types.UnavailableSentiment()
	}

	var r fngResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		logger.Degraded(ctx, "sentiment", "decode failed", "error", err)
		return types.UnavailableSentiment()
	}
	if len(r.Data) == 0 {
		logger.Degraded(ctx, "sentiment", "empty payload")
		return types.UnavailableSentiment()
	}

	value, err := strconv.Atoi(r.Data[0].Value)
	if err != nil || value < 0 || value > 100 {
		logger.Degraded(ctx, "sentiment", "invalid value", "value", r.Data[0].Value)
		return types.UnavailableSentiment()
	}

	return types.SentimentReading{
		Value:          types.SentimentOf(value),
		Classification: r.Data[0].Classification,
	}
}
