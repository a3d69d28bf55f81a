package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrecision(t *testing.T) {
	testCases := []struct {
		value    float64
		expected int
	}{
		{value: 0.00034, expected: 5},
		{value: 0.02, expected: 3},
		{value: 0.5, expected: 2},
		{value: 0.034219, expected: 3},
		{value: 0, expected: 2},
		{value: 1, expected: 2},
		{value: 7002.45, expected: 2},
		{value: -0.0004, expected: 2},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Precision(tc.value), "precision of %v", tc.value)
	}
}

func TestNumberToCurrency(t *testing.T) {
	testCases := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "Thousands", value: 1234567.89, expected: "1,234,567.89"},
		{name: "Rounds to two", value: 8753.0625, expected: "8,753.06"},
		{name: "Below thousand", value: 999, expected: "999.00"},
		{name: "Negative", value: -4497.55, expected: "-4,497.55"},
		{name: "Negative below thousand", value: -872.56, expected: "-872.56"},
		{name: "Sub-cent stays visible", value: 0.00034, expected: "0.00034"},
		{name: "Cents", value: 0.02, expected: "0.020"},
		{name: "Zero", value: 0, expected: "0.00"},
		{name: "Beyond int64", value: 1e20, expected: "100,000,000,000,000,000,000.00"},
		{name: "Negative beyond int64", value: -1e20, expected: "-100,000,000,000,000,000,000.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NumberToCurrency(tc.value))
		})
	}
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$ 11,500.00", Currency("$", 11500))
	assert.Equal(t, "€ 0.00034", Currency("€", 0.00034))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "50.00%", Percent(Value(1, 100, 150)))
	assert.Equal(t, "-39.11%", Percent(Value(1, 11500, 7002.45)))
	assert.Equal(t, Undefined, Percent(Value(1, 0, 150)))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "1", Amount(1))
	assert.Equal(t, "1.25", Amount(1.25))
	assert.Equal(t, "2000", Amount(2000))
}
