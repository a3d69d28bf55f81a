package database

import (
	"coinfolio/internal/cryptocompare"
	"coinfolio/internal/models"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuoteCache keeps the latest fetched price of every coin so holdings can be
// valued without network access.
type QuoteCache struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewQuoteCache creates a cache on top of an open database.
func NewQuoteCache(db *gorm.DB, logger *zap.Logger) *QuoteCache {
	return &QuoteCache{
		db:     db,
		logger: logger.Named("quote_cache"),
	}
}

// Save upserts every quote in resp under the given exchange.
func (c *QuoteCache) Save(resp *cryptocompare.PriceResponse, exchange string, at time.Time) error {
	var quotes []models.Quote
	for symbol, bases := range resp.Raw {
		for base, raw := range bases {
			quotes = append(quotes, models.Quote{
				Symbol:    symbol,
				Base:      base,
				Exchange:  exchange,
				Price:     raw.Price,
				ToSymbol:  resp.Display[symbol][base].ToSymbol,
				FetchedAt: at.Unix(),
			})
		}
	}
	if len(quotes) == 0 {
		return nil
	}

	err := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "base"}, {Name: "exchange"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "to_symbol", "fetched_at", "updated_at"}),
	}).Create(&quotes).Error
	if err != nil {
		return fmt.Errorf("failed to save quotes: %w", err)
	}

	c.logger.Debug("Saved quotes", zap.Int("count", len(quotes)), zap.String("exchange", exchange))
	return nil
}

// Prices returns the cached quotes of symbols in the shape of a live
// response. Symbols that were never fetched are absent from it.
func (c *QuoteCache) Prices(symbols []string, base, exchange string) (*cryptocompare.PriceResponse, error) {
	var quotes []models.Quote
	err := c.db.Where("symbol IN ? AND base = ? AND exchange = ?", symbols, base, exchange).
		Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load quotes: %w", err)
	}

	resp := &cryptocompare.PriceResponse{
		Raw:     make(map[string]map[string]cryptocompare.RawQuote),
		Display: make(map[string]map[string]cryptocompare.DisplayQuote),
	}
	for _, q := range quotes {
		if resp.Raw[q.Symbol] == nil {
			resp.Raw[q.Symbol] = make(map[string]cryptocompare.RawQuote)
			resp.Display[q.Symbol] = make(map[string]cryptocompare.DisplayQuote)
		}
		resp.Raw[q.Symbol][q.Base] = cryptocompare.RawQuote{Price: q.Price}
		resp.Display[q.Symbol][q.Base] = cryptocompare.DisplayQuote{ToSymbol: q.ToSymbol}
	}

	c.logger.Debug("Loaded cached quotes", zap.Int("requested", len(symbols)), zap.Int("found", len(quotes)))
	return resp, nil
}
