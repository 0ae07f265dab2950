package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeframe(t *testing.T) {
	d, err := ParseTimeframe("M5")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	_, err = ParseTimeframe("D7")
	assert.EqualError(t, err, "unsupported timeframe string: D7")
}

func TestAggregate(t *testing.T) {
	base := time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)
	px := func(sec int, p string) Sample {
		return Sample{Time: base.Add(time.Duration(sec) * time.Second), Price: decimal.RequireFromString(p)}
	}
	samples := []Sample{
		px(0, "10"), px(20, "12"), px(40, "9"), px(59, "11"),
		px(61, "11.5"),
		px(185, "13"),
	}

	got := Aggregate(samples, time.Minute)
	require.Len(t, got, 3)

	first := got[0]
	assert.True(t, first.Time.Equal(base))
	assert.Equal(t, "10", first.Open.String())
	assert.Equal(t, "12", first.High.String())
	assert.Equal(t, "9", first.Low.String())
	assert.Equal(t, "11", first.Close.String())
	assert.Equal(t, 4, first.Count)

	assert.Equal(t, 1, got[1].Count)
	assert.Equal(t, "11.5", got[1].Open.String())
	assert.True(t, got[2].Time.Equal(base.Add(3*time.Minute)))

	assert.Nil(t, Aggregate(samples, 0))
	assert.Empty(t, Aggregate(nil, time.Minute))
}
