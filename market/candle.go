package market

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Candle is the OHLC summary of the samples falling in one timeframe bucket.
type Candle struct {
	time.Time
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
	Count int
}

var timeframes = map[string]time.Duration{
	"S1":  time.Second,
	"S5":  5 * time.Second,
	"S15": 15 * time.Second,
	"S30": 30 * time.Second,
	"M1":  time.Minute,
	"M5":  5 * time.Minute,
	"M15": 15 * time.Minute,
	"M30": 30 * time.Minute,
	"H1":  time.Hour,
}

// ParseTimeframe maps names like M1 or S30 to a bucket width.
func ParseTimeframe(tf string) (time.Duration, error) {
	d, ok := timeframes[tf]
	if !ok {
		return 0, fmt.Errorf("unsupported timeframe string: %s", tf)
	}
	return d, nil
}

// Aggregate buckets samples into candles of width tf. Samples must be in
// time order; empty buckets produce no candle.
func Aggregate(samples []Sample, tf time.Duration) []Candle {
	if tf <= 0 {
		return nil
	}
	var out []Candle
	for _, s := range samples {
		start := s.Time.Truncate(tf)
		if n := len(out); n > 0 && out[n-1].Time.Equal(start) {
			c := &out[n-1]
			if s.Price.GreaterThan(c.High) {
				c.High = s.Price
			}
			if s.Price.LessThan(c.Low) {
				c.Low = s.Price
			}
			c.Close = s.Price
			c.Count++
			continue
		}
		out = append(out, Candle{
			Time:  start,
			Open:  s.Price,
			High:  s.Price,
			Low:   s.Price,
			Close: s.Price,
			Count: 1,
		})
	}
	return out
}
