package models

import "gorm.io/gorm"

// Quote is the latest known price of a coin in a base currency on an
// exchange. There is one row per (symbol, base, exchange).
type Quote struct {
	gorm.Model
	Symbol    string  `gorm:"uniqueIndex:idx_quote_key;not null"`
	Base      string  `gorm:"uniqueIndex:idx_quote_key;not null"`
	Exchange  string  `gorm:"uniqueIndex:idx_quote_key"`
	Price     float64 `gorm:"not null"`
	ToSymbol  string
	FetchedAt int64 `gorm:"not null"` // unix seconds
}
