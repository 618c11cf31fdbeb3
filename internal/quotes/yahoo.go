package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"market-digest/internal/trace"
	"market-digest/internal/types"
)

// ErrNoData is the explicit "no data" outcome: the provider answered but
// had no usable bars for the symbol.
var ErrNoData = errors.New("no price data for symbol")

// YahooFetcher fetches daily bars from the Yahoo Finance chart API.
type YahooFetcher struct {
	client  *http.Client
	baseURL string
}

// NewYahooFetcher creates a fetcher with a per-call timeout so a hung
// provider cannot stall the whole run.
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
	}
}

// NewYahooFetcherWithBase is used by tests to point at a stub server.
func NewYahooFetcherWithBase(baseURL string) *YahooFetcher {
	f := NewYahooFetcher()
	f.baseURL = baseURL
	return f
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure of the chart API. Close values come
// back as JSON null on holidays, hence interface{} slices.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchDailyBars returns up to `days` daily bars, oldest first.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, ticker string, days int) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "yahoo-fetch-chart")
	defer span.End()

	u := fmt.Sprintf("%s/%s?interval=1d&range=%s", f.baseURL, url.PathEscape(ticker), rangeFor(days))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 ||
		len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	// The provider occasionally returns ragged arrays; only indices
	// covered by every series are usable bars.
	n := len(result.Timestamp)
	for _, s := range [][]interface{}{quote.Open, quote.High, quote.Low, quote.Close, quote.Volume} {
		if len(s) < n {
			n = len(s)
		}
	}

	bars := make([]types.Candle, 0, n)
	for i := 0; i < n; i++ {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bar (holiday)
		}
		bars = append(bars, types.Candle{
			Ts:    result.Timestamp[i],
			Open:  o,
			High:  h,
			Low:   l,
			Close: c,
			Vol:   toFloat(quote.Volume[i]),
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Ts < bars[j].Ts })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// rangeFor maps a requested day count to the coarse ranges the chart API
// accepts for a daily interval.
func rangeFor(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}
