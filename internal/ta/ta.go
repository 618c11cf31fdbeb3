package ta

import (
	"errors"

	"market-digest/internal/types"
)

// ErrInsufficientData signals that a series is shorter than the window an
// indicator requires. Callers skip the symbol; no arithmetic error ever
// surfaces from this package.
var ErrInsufficientData = errors.New("insufficient data for indicator window")

// LatestReturn computes the absolute and percent move of the latest close
// against the one immediately prior.
func LatestReturn(closes []float64) (change, percent float64, err error) {
	if len(closes) < 2 {
		return 0, 0, ErrInsufficientData
	}
	last, prev := closes[len(closes)-1], closes[len(closes)-2]
	change = last - prev
	if prev != 0 {
		percent = change / prev * 100
	}
	return change, percent, nil
}

// SMA returns the simple moving average of the trailing n closes.
func SMA(closes []float64, n int) (float64, error) {
	if n <= 0 || len(closes) < n {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n), nil
}

// RSI computes the relative strength index over the trailing period using
// simple rolling means of gains and losses. A window with no losses is a
// pure uptrend and reports exactly 100; the division is never attempted.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 || len(closes) < period+1 {
		return 0, ErrInsufficientData
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0, nil
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs)), nil
}

// ClassifyTrend compares price to its moving average with a 1% deadband
// on either side so the classification does not flap around the line.
func ClassifyTrend(price, ma float64) types.Trend {
	switch {
	case price > ma*1.01:
		return types.TrendBullish
	case price < ma*0.99:
		return types.TrendBearish
	default:
		return types.TrendRanging
	}
}
