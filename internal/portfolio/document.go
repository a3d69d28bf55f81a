package portfolio

import "strconv"

// Section names a top-level part of the document.
type Section string

const (
	SectionSettings Section = "settings"
	SectionHoldings Section = "holdings"
)

// Settings holds the display preferences of a portfolio.
type Settings struct {
	Base     string `toml:"base"`
	Exchange string `toml:"exchange"`
	Color    bool   `toml:"color"`
}

// Holding is one lot of a coin bought at a recorded price. Several lots of
// the same coin are kept apart.
type Holding struct {
	Name   string  `toml:"name"`
	Amount float64 `toml:"amount"`
	Price  float64 `toml:"price"`
}

// Label is how a holding is listed in selection menus.
func (h Holding) Label() string {
	return h.Name + " (" + strconv.FormatFloat(h.Amount, 'f', -1, 64) + ")"
}

// Document is the persisted portfolio: one settings table and an ordered
// array of holdings tables.
type Document struct {
	Settings *Settings `toml:"settings,omitempty"`
	Holdings []Holding `toml:"holdings,omitempty"`
}
