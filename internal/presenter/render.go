package presenter

import (
	"strings"
	"time"

	"coinfolio/internal/cryptocompare"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Placeholder fills cells that have no meaningful aggregate.
const Placeholder = "-"

var (
	colorLabel = lipgloss.Color("3") // yellow
	colorTotal = lipgloss.Color("6") // cyan
	colorUp    = lipgloss.Color("2") // green
	colorDown  = lipgloss.Color("1") // red
)

// Painter colors cell text. A disabled painter returns text unchanged.
type Painter struct {
	Enabled bool
}

// Paint renders text in the given color.
func (p Painter) Paint(text string, color lipgloss.Color) string {
	if !p.Enabled {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// Trend paints text with the semantic color of t. Neutral stays plain.
func (p Painter) Trend(text string, t Trend) string {
	switch t {
	case Up:
		return p.Paint(text, colorUp)
	case Down:
		return p.Paint(text, colorDown)
	}
	return text
}

// Field is one labelled value of a banner.
type Field struct {
	Label string
	Value string
}

// TimestampLayout is how banners print the fetch time.
const TimestampLayout = "02 January 2006 at 03:04:05 PM MST"

// Banner renders the line printed above every table, surrounded by blank
// lines.
func Banner(p Painter, now time.Time, fields ...Field) string {
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		parts = append(parts, p.Paint(f.Label, colorLabel)+" "+f.Value)
	}
	parts = append(parts, p.Paint("Time", colorLabel)+" "+now.Format(TimestampLayout))
	return "\n" + strings.Join(parts, "  ") + "\n\n"
}

// withArrow prefixes text with the arrow of t, if any.
func withArrow(t Trend, text string) string {
	if arrow := t.Arrow(); arrow != "" {
		return arrow + " " + text
	}
	return text
}

// Render draws rows as a bordered block. The first column is left aligned,
// the others right aligned.
func Render(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return style.Align(lipgloss.Left)
			}
			return style.Align(lipgloss.Right)
		}).
		String()
}

// Position is one holding joined with its current market price.
type Position struct {
	Name        string
	Amount      float64
	BuyPrice    float64
	MarketPrice float64
}

var holdingsHeaders = []string{
	"Coin", "Amount", "Price", "Total Price", "Cur. Price", "Total Cur. Price", "Change", "Change%",
}

// HoldingsRows computes one row per position followed by the ALL row.
func HoldingsRows(p Painter, symbol string, positions []Position) [][]string {
	rows := make([][]string, 0, len(positions)+1)
	vals := make([]Valuation, 0, len(positions))

	for _, pos := range positions {
		v := Value(pos.Amount, pos.BuyPrice, pos.MarketPrice)
		vals = append(vals, v)
		t := TrendOf(v.Change)
		rows = append(rows, []string{
			p.Paint(pos.Name, colorLabel),
			Amount(pos.Amount),
			Currency(symbol, pos.BuyPrice),
			Currency(symbol, v.PastValue),
			p.Trend(Currency(symbol, pos.MarketPrice), t),
			p.Trend(Currency(symbol, v.CurrentValue), t),
			p.Trend(withArrow(t, Currency(symbol, v.Change)), t),
			p.Trend(withArrow(t, Percent(v)), t),
		})
	}

	total := Total(vals)
	t := TrendOf(total.Change)
	rows = append(rows, []string{
		p.Paint("ALL", colorTotal),
		Placeholder,
		Placeholder,
		Currency(symbol, total.PastValue),
		Placeholder,
		p.Trend(Currency(symbol, total.CurrentValue), t),
		p.Trend(withArrow(t, Currency(symbol, total.Change)), t),
		p.Trend(withArrow(t, Percent(total)), t),
	})
	return rows
}

// HoldingsTable renders the portfolio table.
func HoldingsTable(p Painter, symbol string, positions []Position) string {
	return Render(holdingsHeaders, HoldingsRows(p, symbol, positions))
}

var coinsHeaders = []string{
	"Coin", "Price", "Chg. 24H", "Chg.% 24H", "Open 24H", "High 24H", "Low 24H",
	"Direct Vol. 24H", "Total Vol. 24H", "Market Cap",
}

// CoinsTable renders the 24h trading data of coins, using the values
// pre-formatted by the price feed.
func CoinsTable(p Painter, names []string, base string, prices *cryptocompare.PriceResponse) string {
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		raw, d, ok := prices.Quote(name, base)
		if !ok {
			continue
		}
		t := TrendOf(raw.Change24Hour)
		rows = append(rows, []string{
			p.Paint(name, colorLabel),
			p.Trend(d.Price, t),
			p.Trend(withArrow(t, d.Change24Hour), t),
			p.Trend(withArrow(t, d.ChangePct24Hour+"%"), t),
			d.Open24Hour,
			d.High24Hour,
			d.Low24Hour,
			d.Volume24HourTo,
			d.TotalVolume24HTo,
			d.MktCap,
		})
	}
	return Render(coinsHeaders, rows)
}

var marketsHeaders = []string{
	"Market", "Price", "Chg. 24H", "Chg.% 24H", "Open 24H", "High 24H", "Low 24H", "Direct Vol. 24H",
}

// MarketsTable renders the top exchanges of a pair.
func MarketsTable(p Painter, symbol string, markets []cryptocompare.Market) string {
	rows := make([][]string, 0, len(markets))
	for _, m := range markets {
		t := TrendOf(m.Change24Hour)
		rows = append(rows, []string{
			p.Paint(m.Market, colorLabel),
			p.Trend(Currency(symbol, m.Price), t),
			p.Trend(withArrow(t, Currency(symbol, m.Change24Hour)), t),
			p.Trend(withArrow(t, RoundTo(m.ChangePct24Hour)+"%"), t),
			Currency(symbol, m.Open24Hour),
			Currency(symbol, m.High24Hour),
			Currency(symbol, m.Low24Hour),
			Currency(symbol, m.Volume24HourTo),
		})
	}
	return Render(marketsHeaders, rows)
}
