// Package eodhd provides a client for the EODHD market data API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" || s == "NA" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second

	// lseCurrency is what LSE real-time quotes are denominated in: pence.
	lseCurrency = "GBX"
)

// Client implements the QuoteProvider interface against EODHD.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// realTimeResponse represents one entry of the real-time endpoint.
type realTimeResponse struct {
	Code      string      `json:"code"`
	Close     flexFloat64 `json:"close"`
	Timestamp int64       `json:"timestamp"`
}

// GetQuotes retrieves real-time quotes for a symbol set in one batched call.
// The endpoint takes the first symbol in the path and the rest via the "s"
// parameter; a single-symbol request returns a bare object instead of an
// array. Symbols the provider cannot price are absent from the result.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error) {
	if len(symbols) == 0 {
		return map[string]models.Quote{}, nil
	}

	path := fmt.Sprintf("/real-time/%s", symbols[0])
	params := url.Values{}
	if len(symbols) > 1 {
		params.Set("s", strings.Join(symbols[1:], ","))
	}

	var raw json.RawMessage
	if err := c.get(ctx, path, params, &raw); err != nil {
		return nil, err
	}

	var entries []realTimeResponse
	if err := json.Unmarshal(raw, &entries); err != nil {
		var single realTimeResponse
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("failed to decode real-time response: %w", err)
		}
		entries = []realTimeResponse{single}
	}

	quotes := make(map[string]models.Quote, len(entries))
	for _, e := range entries {
		if e.Code == "" || e.Close <= 0 {
			continue
		}
		quotes[e.Code] = models.Quote{
			Symbol:   e.Code,
			Price:    float64(e.Close),
			Currency: quoteCurrency(e.Code),
			AsOf:     time.Unix(e.Timestamp, 0).UTC(),
		}
	}

	c.logger.Debug().
		Int("requested", len(symbols)).
		Int("priced", len(quotes)).
		Msg("EODHD real-time quotes")

	return quotes, nil
}

// exchangeSymbolResponse represents one entry of the symbol list endpoint.
type exchangeSymbolResponse struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Exchange string `json:"Exchange"`
	Currency string `json:"Currency"`
	Type     string `json:"Type"`
}

// GetExchangeSymbols retrieves the listed equities of an exchange.
func (c *Client) GetExchangeSymbols(ctx context.Context, exchange string) ([]models.Instrument, error) {
	path := fmt.Sprintf("/exchange-symbol-list/%s", exchange)

	var symbols []exchangeSymbolResponse
	if err := c.get(ctx, path, nil, &symbols); err != nil {
		return nil, err
	}

	instruments := make([]models.Instrument, 0, len(symbols))
	for _, s := range symbols {
		if s.Code == "" {
			continue
		}
		if s.Type != "" && s.Type != "Common Stock" {
			continue
		}
		instruments = append(instruments, models.Instrument{
			Symbol:   s.Code,
			Name:     s.Name,
			Exchange: s.Exchange,
			Currency: s.Currency,
		})
	}

	return instruments, nil
}

// quoteCurrency infers the quote denomination from the ticker's exchange
// suffix. LSE listings are quoted in pence.
func quoteCurrency(symbol string) string {
	if strings.HasSuffix(strings.ToUpper(symbol), models.LSESuffix) {
		return lseCurrency
	}
	return ""
}

// Ensure Client implements the QuoteProvider interface
var _ interfaces.QuoteProvider = (*Client)(nil)
