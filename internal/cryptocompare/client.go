package cryptocompare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"coinfolio/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrUpstream is returned when the API answers with an error payload or a
// non-success status. Callers treat it as terminal.
var ErrUpstream = errors.New("upstream api error")

// errTimeout marks a request that hit the read timeout. Public methods
// swallow it and return an empty result.
var errTimeout = errors.New("request timed out")

// Feed defines the price feed contract consumed by the commands.
// A nil result with a nil error means the call timed out and yielded nothing.
type Feed interface {
	Prices(ctx context.Context, symbols []string, base, exchange string) (*PriceResponse, error)
	TopCoins(ctx context.Context, base string, limit int) ([]string, error)
	TopExchanges(ctx context.Context, symbol, base string, limit int) ([]Market, error)
}

// Client is a client for the CryptoCompare REST API.
// It implements the Feed interface.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ Feed = (*Client)(nil)

// NewClient creates a new CryptoCompare API client.
func NewClient(cfg *config.Feed, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger.Named("cryptocompare"),
		limiter: limiter,
	}
}

// envelope is embedded in every response; the API reports failures in-band.
type envelope struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
}

func (e envelope) upstreamError() error {
	if e.Response == "Error" {
		return fmt.Errorf("%w: %s", ErrUpstream, e.Message)
	}
	return nil
}

// doRequest executes a single GET request and decodes the body into out.
// There is no retry: a timeout is reported as errTimeout and the next
// scheduled tick tries again.
func (c *Client) doRequest(ctx context.Context, path string, params map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	c.logger.Debug("Executing request", zap.String("url", c.client.BaseURL+path), zap.Any("params", params))
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isTimeout(err) {
			c.logger.Warn("Request timed out", zap.String("path", path), zap.Error(err))
			return errTimeout
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.IsError() {
		return fmt.Errorf("%w: request failed with status %s: %s", ErrUpstream, resp.Status(), resp.String())
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrUpstream, err)
	}
	if err := env.upstreamError(); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrUpstream, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// RawQuote holds the machine-numeric trading data of a pair.
type RawQuote struct {
	Price            float64 `json:"PRICE"`
	Change24Hour     float64 `json:"CHANGE24HOUR"`
	ChangePct24Hour  float64 `json:"CHANGEPCT24HOUR"`
	Open24Hour       float64 `json:"OPEN24HOUR"`
	High24Hour       float64 `json:"HIGH24HOUR"`
	Low24Hour        float64 `json:"LOW24HOUR"`
	Volume24HourTo   float64 `json:"VOLUME24HOURTO"`
	TotalVolume24HTo float64 `json:"TOTALVOLUME24HTO"`
	MktCap           float64 `json:"MKTCAP"`
}

// DisplayQuote holds the same data pre-formatted by the API, plus the
// currency symbol of the base currency.
type DisplayQuote struct {
	ToSymbol         string `json:"TOSYMBOL"`
	Price            string `json:"PRICE"`
	Change24Hour     string `json:"CHANGE24HOUR"`
	ChangePct24Hour  string `json:"CHANGEPCT24HOUR"`
	Open24Hour       string `json:"OPEN24HOUR"`
	High24Hour       string `json:"HIGH24HOUR"`
	Low24Hour        string `json:"LOW24HOUR"`
	Volume24HourTo   string `json:"VOLUME24HOURTO"`
	TotalVolume24HTo string `json:"TOTALVOLUME24HTO"`
	MktCap           string `json:"MKTCAP"`
}

// PriceResponse represents the response of the /pricemultifull endpoint.
// Both maps are keyed by [symbol][base].
type PriceResponse struct {
	envelope
	Raw     map[string]map[string]RawQuote     `json:"RAW"`
	Display map[string]map[string]DisplayQuote `json:"DISPLAY"`
}

// Quote looks up the raw and display data of a symbol in the base currency.
func (p *PriceResponse) Quote(symbol, base string) (RawQuote, DisplayQuote, bool) {
	raw, ok := p.Raw[symbol][base]
	if !ok {
		return RawQuote{}, DisplayQuote{}, false
	}
	return raw, p.Display[symbol][base], true
}

// Prices fetches full trading data for the symbols converted into base.
func (c *Client) Prices(ctx context.Context, symbols []string, base, exchange string) (*PriceResponse, error) {
	params := map[string]string{
		"fsyms":         strings.Join(symbols, ","),
		"tsyms":         base,
		"tryConversion": "true",
	}
	if exchange != "" {
		params["e"] = exchange
	}

	var result PriceResponse
	if err := c.doRequest(ctx, "/pricemultifull", params, &result); err != nil {
		if errors.Is(err, errTimeout) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prices: %w", err)
	}
	return &result, nil
}

type topCoinsResponse struct {
	envelope
	Data []struct {
		CoinInfo struct {
			Name string `json:"Name"`
		} `json:"CoinInfo"`
	} `json:"Data"`
}

// TopCoins fetches the names of the top coins by total 24h volume.
func (c *Client) TopCoins(ctx context.Context, base string, limit int) ([]string, error) {
	params := map[string]string{"tsym": base}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
		params["page"] = "0"
	}

	var result topCoinsResponse
	if err := c.doRequest(ctx, "/top/totalvol", params, &result); err != nil {
		if errors.Is(err, errTimeout) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get top coins: %w", err)
	}

	names := make([]string, 0, len(result.Data))
	for _, d := range result.Data {
		names = append(names, d.CoinInfo.Name)
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// Market holds the trading data of a pair on one exchange.
type Market struct {
	Market          string  `json:"MARKET"`
	Price           float64 `json:"PRICE"`
	Change24Hour    float64 `json:"CHANGE24HOUR"`
	ChangePct24Hour float64 `json:"CHANGEPCT24HOUR"`
	Open24Hour      float64 `json:"OPEN24HOUR"`
	High24Hour      float64 `json:"HIGH24HOUR"`
	Low24Hour       float64 `json:"LOW24HOUR"`
	Volume24HourTo  float64 `json:"VOLUME24HOURTO"`
}

type topExchangesResponse struct {
	envelope
	Data struct {
		Exchanges []Market `json:"Exchanges"`
	} `json:"Data"`
}

// TopExchanges fetches the top exchanges by volume for a currency pair.
func (c *Client) TopExchanges(ctx context.Context, symbol, base string, limit int) ([]Market, error) {
	params := map[string]string{"fsym": symbol, "tsym": base}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
		params["page"] = "0"
	}

	var result topExchangesResponse
	if err := c.doRequest(ctx, "/top/exchanges/full", params, &result); err != nil {
		if errors.Is(err, errTimeout) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get top exchanges: %w", err)
	}
	return result.Data.Exchanges, nil
}
