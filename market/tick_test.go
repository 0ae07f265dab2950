package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesAppend(t *testing.T) {
	t.Parallel()

	var ser Series
	t0 := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	require.NoError(t, ser.Append(Sample{Time: t0, Price: decimal.RequireFromString("187.12")}))
	require.NoError(t, ser.Append(Sample{Time: t0.Add(time.Second), Price: decimal.RequireFromString("187.20")}))

	err := ser.Append(Sample{Time: t0.Add(time.Second), Price: decimal.RequireFromString("187.30")})
	assert.Error(t, err, "equal timestamps must be rejected")

	err = ser.Append(Sample{Time: t0, Price: decimal.RequireFromString("187.30")})
	assert.Error(t, err, "older timestamps must be rejected")

	assert.Equal(t, 2, ser.Len())
	last, ok := ser.Last()
	require.True(t, ok)
	assert.True(t, last.Price.Equal(decimal.RequireFromString("187.20")))
	assert.Equal(t, []float64{187.12, 187.2}, ser.Floats())
}

func TestSeriesSamplesIsCopy(t *testing.T) {
	t.Parallel()

	var ser Series
	t0 := time.Now()
	require.NoError(t, ser.Append(Sample{Time: t0, Price: decimal.NewFromInt(1)}))

	got := ser.Samples()
	got[0].Price = decimal.NewFromInt(99)

	last, _ := ser.Last()
	assert.True(t, last.Price.Equal(decimal.NewFromInt(1)))
}

func TestSeriesEmpty(t *testing.T) {
	var ser Series
	_, ok := ser.Last()
	assert.False(t, ok)
	assert.Empty(t, ser.Floats())
}

func TestMatchString(t *testing.T) {
	m := Match{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NMS"}
	assert.Equal(t, "AAPL       - Apple Inc. (NMS)", m.String())
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("  aapl \n"))
	assert.Equal(t, "ENI.MI", NormalizeSymbol("eni.mi"))
}

func TestVenueMIC(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"AAPL", "xnys"},
		{"eni.mi", "xmil"},
		{"VOD.L", "xlon"},
		{"7203.T", "xtks"},
		{"BTC-USD", ""},
		{"BRK.B", "xnys"},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, VenueMIC(tt.symbol))
		})
	}
}

func TestMarketOpenCrypto(t *testing.T) {
	open, known := MarketOpen("ETH-USD", time.Now())
	assert.True(t, open)
	assert.False(t, known)
}
