package presenter

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Valuation is the gain or loss of a position between its buy value and
// its current value.
type Valuation struct {
	PastValue     float64
	CurrentValue  float64
	Change        float64
	ChangePercent float64
	// PercentDefined is false when PastValue is zero.
	PercentDefined bool
}

// Value computes the valuation of amount units bought at buyPrice and now
// quoted at marketPrice.
func Value(amount, buyPrice, marketPrice float64) Valuation {
	a := decimal.NewFromFloat(amount)
	past := a.Mul(decimal.NewFromFloat(buyPrice))
	current := a.Mul(decimal.NewFromFloat(marketPrice))
	return valuation(past, current)
}

// Total sums past and current values independently and derives the change
// from the sums.
func Total(vals []Valuation) Valuation {
	past, current := decimal.Zero, decimal.Zero
	for _, v := range vals {
		past = past.Add(decimal.NewFromFloat(v.PastValue))
		current = current.Add(decimal.NewFromFloat(v.CurrentValue))
	}
	return valuation(past, current)
}

// PercentChange returns (after - before) / before * 100. The result is not
// defined when before is zero.
func PercentChange(before, after float64) (float64, bool) {
	v := valuation(decimal.NewFromFloat(before), decimal.NewFromFloat(after))
	return v.ChangePercent, v.PercentDefined
}

func valuation(past, current decimal.Decimal) Valuation {
	change := current.Sub(past)
	v := Valuation{
		PastValue:    past.InexactFloat64(),
		CurrentValue: current.InexactFloat64(),
		Change:       change.InexactFloat64(),
	}
	if !past.IsZero() {
		v.ChangePercent = change.Div(past).Mul(hundred).InexactFloat64()
		v.PercentDefined = true
	}
	return v
}

// Trend is the direction of a change.
type Trend int

const (
	Neutral Trend = iota
	Up
	Down
)

// TrendOf classifies a change. Zero is neutral: no arrow and no color.
// An older rendering showed a down arrow on zero; that behavior is gone.
func TrendOf(change float64) Trend {
	switch {
	case change > 0:
		return Up
	case change < 0:
		return Down
	}
	return Neutral
}

// Arrow returns the indicator printed in front of changes.
func (t Trend) Arrow() string {
	switch t {
	case Up:
		return "▲"
	case Down:
		return "▼"
	}
	return ""
}
