package interfaces

import (
	"context"

	"market-digest/internal/types"
)

// NewsProvider searches recent articles for one category query. A provider
// never fails the caller: transport or parse problems yield an empty slice.
type NewsProvider interface {
	Search(ctx context.Context, query string) []types.RawArticle
	Name() string
}
