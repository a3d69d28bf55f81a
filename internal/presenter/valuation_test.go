package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentChange(t *testing.T) {
	pct, ok := PercentChange(100, 150)
	assert.True(t, ok)
	assert.Equal(t, 50.0, pct)

	pct, ok = PercentChange(100, 50)
	assert.True(t, ok)
	assert.Equal(t, -50.0, pct)

	pct, ok = PercentChange(0, 50)
	assert.False(t, ok)
	assert.Zero(t, pct)
}

func TestValue(t *testing.T) {
	t.Run("Loss", func(t *testing.T) {
		v := Value(1.0, 11500.0, 7002.45)

		assert.Equal(t, 11500.0, v.PastValue)
		assert.Equal(t, 7002.45, v.CurrentValue)
		assert.Equal(t, -4497.55, v.Change)
		assert.InDelta(t, -39.11, v.ChangePercent, 0.005)
		assert.True(t, v.PercentDefined)
		assert.Equal(t, Down, TrendOf(v.Change))
	})

	t.Run("ZeroBuyPrice", func(t *testing.T) {
		v := Value(10, 0, 2)

		assert.Equal(t, 0.0, v.PastValue)
		assert.Equal(t, 20.0, v.CurrentValue)
		assert.False(t, v.PercentDefined)
	})

	t.Run("NoChange", func(t *testing.T) {
		v := Value(2, 50, 50)

		assert.Zero(t, v.Change)
		assert.Zero(t, v.ChangePercent)
		assert.Equal(t, Neutral, TrendOf(v.Change))
	})
}

func TestTotal(t *testing.T) {
	vals := []Valuation{
		Value(1.25, 8000, 7002.45),
		Value(4, 600, 381.86),
	}

	total := Total(vals)

	assert.Equal(t, 12400.0, total.PastValue)
	assert.InDelta(t, 10280.5025, total.CurrentValue, 1e-9)
	assert.InDelta(t, -2119.4975, total.Change, 1e-9)
	assert.InDelta(t, -17.09, total.ChangePercent, 0.005)
}

func TestTotal_Empty(t *testing.T) {
	total := Total(nil)

	assert.Zero(t, total.PastValue)
	assert.False(t, total.PercentDefined)
}

func TestTrend(t *testing.T) {
	testCases := []struct {
		change float64
		trend  Trend
		arrow  string
	}{
		{change: 28.44, trend: Up, arrow: "▲"},
		{change: -0.01, trend: Down, arrow: "▼"},
		{change: 0, trend: Neutral, arrow: ""},
	}

	for _, tc := range testCases {
		trend := TrendOf(tc.change)
		assert.Equal(t, tc.trend, trend)
		assert.Equal(t, tc.arrow, trend.Arrow())
	}
}
