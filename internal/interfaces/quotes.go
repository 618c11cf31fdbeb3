package interfaces

import (
	"context"

	"market-digest/internal/types"
)

// QuoteFetcher retrieves daily price history for a ticker. Implementations
// return quotes.ErrNoData when the provider has nothing for the symbol.
type QuoteFetcher interface {
	FetchDailyBars(ctx context.Context, ticker string, days int) ([]types.Candle, error)
	Name() string
}
