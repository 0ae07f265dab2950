package market

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidSymbol means the symbol is unknown or has no recent data.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrNoData means the source answered but had nothing for the symbol.
	ErrNoData = errors.New("no data")
)

func ToFloat(p decimal.Decimal) float64 {
	f, _ := p.Float64()
	return f
}

func FromFloat(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x)
}

// NormalizeSymbol trims and upper-cases a ticker as typed by a user.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
