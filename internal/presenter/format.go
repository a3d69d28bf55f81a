package presenter

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const defaultPrecision = 2

// Undefined is rendered where a percentage has no meaning.
const Undefined = "n/a"

// Precision returns the number of decimals used to render value. Values in
// [0, 1) keep two digits past their first significant one so that sub-cent
// prices stay readable; everything else uses two decimals.
func Precision(value float64) int {
	if value < 0 || value >= 1 {
		return defaultPrecision
	}
	_, frac, ok := strings.Cut(decimal.NewFromFloat(value).String(), ".")
	if !ok {
		return defaultPrecision
	}
	i := strings.IndexFunc(frac, func(r rune) bool { return r != '0' })
	if i < 0 {
		return defaultPrecision
	}
	return i + defaultPrecision
}

// RoundTo renders value with its dynamic precision.
func RoundTo(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(int32(Precision(value)))
}

// NumberToCurrency renders value with its dynamic precision and a comma
// every three digits left of the decimal point.
func NumberToCurrency(value float64) string {
	s := RoundTo(value)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if n, ok := new(big.Int).SetString(whole, 10); ok {
		whole = humanize.BigComma(n)
	}
	if hasFrac {
		return sign + whole + "." + frac
	}
	return sign + whole
}

// Currency prefixes NumberToCurrency with the currency symbol supplied by
// the price feed.
func Currency(symbol string, value float64) string {
	return symbol + " " + NumberToCurrency(value)
}

// Percent renders the change percentage of v with two decimals, or
// Undefined.
func Percent(v Valuation) string {
	if !v.PercentDefined {
		return Undefined
	}
	return decimal.NewFromFloat(v.ChangePercent).StringFixed(2) + "%"
}

// Amount renders a coin amount as entered, without padding zeros.
func Amount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
