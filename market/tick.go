package market

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource returns the latest trade price for a symbol.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	Validate(ctx context.Context, symbol string) (bool, error)
}

// SymbolSearcher resolves free text into candidate symbols.
type SymbolSearcher interface {
	Search(ctx context.Context, query string) ([]Match, error)
}

// Match is one symbol search candidate.
type Match struct {
	Symbol   string
	Name     string
	Exchange string
}

func (m Match) String() string {
	return fmt.Sprintf("%-10s - %s (%s)", m.Symbol, m.Name, m.Exchange)
}

// Sample is a single observed price.
type Sample struct {
	Time  time.Time
	Price decimal.Decimal
}

// Series is an append-only, time ordered run of samples.
type Series struct {
	samples []Sample
}

// Append adds s to the end of the series. Timestamps must strictly increase.
func (ser *Series) Append(s Sample) error {
	if n := len(ser.samples); n > 0 && !s.Time.After(ser.samples[n-1].Time) {
		return fmt.Errorf("sample at %s is not after %s",
			s.Time.Format(time.RFC3339Nano), ser.samples[n-1].Time.Format(time.RFC3339Nano))
	}
	ser.samples = append(ser.samples, s)
	return nil
}

func (ser *Series) Len() int {
	return len(ser.samples)
}

// Samples returns a copy of the recorded samples.
func (ser *Series) Samples() []Sample {
	out := make([]Sample, len(ser.samples))
	copy(out, ser.samples)
	return out
}

// Last returns the most recent sample.
func (ser *Series) Last() (Sample, bool) {
	if len(ser.samples) == 0 {
		return Sample{}, false
	}
	return ser.samples[len(ser.samples)-1], true
}

// Floats returns the prices as float64 for plotting.
func (ser *Series) Floats() []float64 {
	out := make([]float64, len(ser.samples))
	for i, s := range ser.samples {
		out[i] = ToFloat(s.Price)
	}
	return out
}

// Session identifies one tracking run.
type Session struct {
	ID       string
	Symbol   string
	Started  time.Time
	Duration time.Duration
	Refresh  time.Duration
}
