package ta

import (
	"errors"
	"math"
	"testing"

	"market-digest/internal/types"
)

func TestLatestReturn(t *testing.T) {
	change, percent, err := LatestReturn([]float64{100, 105})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change != 5 {
		t.Errorf("expected change 5, got %f", change)
	}
	if percent != 5 {
		t.Errorf("expected percent 5, got %f", percent)
	}
}

func TestLatestReturnInsufficientData(t *testing.T) {
	if _, _, err := LatestReturn([]float64{100}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, _, err := LatestReturn(nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for empty series, got %v", err)
	}
}

func TestRSIBounds(t *testing.T) {
	// alternating gains and losses over a long series
	closes := make([]float64, 60)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100 + float64(i%7)
		} else {
			closes[i] = 98 - float64(i%5)
		}
	}
	rsi, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI out of bounds: %f", rsi)
	}
}

func TestRSIPureUptrend(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100.0 {
		t.Errorf("expected RSI exactly 100 for pure uptrend, got %f", rsi)
	}
	if math.IsNaN(rsi) {
		t.Error("RSI must never be NaN")
	}
}

func TestRSIInsufficientData(t *testing.T) {
	closes := []float64{100, 101, 102}
	if _, err := RSI(closes, 14); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRSIKnownValue(t *testing.T) {
	// 14 deltas: 7 gains of 2, 7 losses of 1 -> avg gain 1, avg loss 0.5
	// RS = 2, RSI = 100 - 100/3 = 66.666...
	closes := []float64{100}
	v := 100.0
	for i := 0; i < 7; i++ {
		v += 2
		closes = append(closes, v)
		v -= 1
		closes = append(closes, v)
	}
	rsi, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100.0 - 100.0/3.0
	if math.Abs(rsi-want) > 1e-9 {
		t.Errorf("expected RSI %f, got %f", want, rsi)
	}
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	sma, err := SMA(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 4 {
		t.Errorf("expected SMA 4, got %f", sma)
	}
	if _, err := SMA(closes, 6); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		price, ma float64
		want      types.Trend
	}{
		{110, 100, types.TrendBullish},
		{100, 110, types.TrendBearish},
		{100.5, 100, types.TrendRanging},
		// deadband boundaries around ma=100
		{101.00, 100, types.TrendRanging}, // exactly +1.00%
		{101.01, 100, types.TrendBullish}, // +1.01%
		{99.00, 100, types.TrendRanging},  // exactly -1.00%
		{98.99, 100, types.TrendBearish},  // -1.01%
	}
	for _, c := range cases {
		if got := ClassifyTrend(c.price, c.ma); got != c.want {
			t.Errorf("ClassifyTrend(%v, %v) = %s, want %s", c.price, c.ma, got, c.want)
		}
	}
}
