package interfaces

import (
	"context"

	"market-digest/internal/types"
)

// SentimentProvider fetches the fear/greed index. On any failure it returns
// the unavailable sentinel, never an error.
type SentimentProvider interface {
	Fetch(ctx context.Context) types.SentimentReading
}
