package currconv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go-currency-converter/domain"
)

// DefaultBaseURL the free tier of the currency converter API
const DefaultBaseURL = "https://free.currconv.com/api/v7"

var (
	// ErrNoContentLength the provider did not report a content length
	ErrNoContentLength = errors.New("no content length")

	// ErrEmptyResponse the provider answered 200 with an empty body
	ErrEmptyResponse = errors.New("empty response")
)

// Service looks up exchange rates
type Service interface {
	Rate(ctx context.Context, from domain.Currency, to domain.Currency) (domain.Quote, error)
}

// Config for a Client
type Config struct {
	// BaseURL of the API, without a trailing slash
	BaseURL string

	// APIKey sent with every request. Required.
	APIKey string

	// Timeout per HTTP attempt
	Timeout time.Duration

	// Retries after the first attempt on transport errors, 429 and 5xx responses
	Retries int

	// RetryWait and RetryMaxWait bound the exponential backoff between attempts
	RetryWait    time.Duration
	RetryMaxWait time.Duration
}

// Client the currency converter REST API
type Client struct {
	client *resty.Client
}

// NewClient constructs a valid Client. An empty API key is a configuration error.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", domain.ErrConfig)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 100 * time.Millisecond
	}
	if cfg.RetryMaxWait == 0 {
		cfg.RetryMaxWait = 2 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetQueryParam("apiKey", cfg.APIKey).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(retryable)

	return &Client{client: client}, nil
}

// retryable reports whether an attempt failed in a way worth retrying
func retryable(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
}

// Rate fetches the current exchange rate from one currency to another.
// Every failure to determine a rate wraps domain.ErrUnavailable.
func (c *Client) Rate(ctx context.Context, from domain.Currency, to domain.Currency) (domain.Quote, error) {
	pair := domain.Pair{From: from, To: to}

	response, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":       pair.String(),
			"compact": "ultra",
		}).
		Get("/convert")
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: http get [%v]: %w", domain.ErrUnavailable, pair, err)
	}
	if err := checkResponse(response); err != nil {
		return domain.Quote{}, fmt.Errorf("%w: [%v]: %w", domain.ErrUnavailable, pair, err)
	}

	var quotes map[string]decimal.Decimal
	if err := json.Unmarshal(response.Body(), &quotes); err != nil {
		return domain.Quote{}, fmt.Errorf("%w: decoding json [%v]: %w", domain.ErrUnavailable, pair, err)
	}

	rate, ok := quotes[pair.String()]
	if !ok {
		return domain.Quote{}, fmt.Errorf("%w: no rate for [%v]", domain.ErrUnavailable, pair)
	}
	if !rate.IsPositive() {
		return domain.Quote{}, fmt.Errorf("%w: bad rate for [%v]: %v", domain.ErrUnavailable, pair, rate)
	}

	return domain.Quote{From: from, To: to, Rate: rate}, nil
}

// Currencies lists every currency the provider supports, keyed by code.
func (c *Client) Currencies(ctx context.Context) (map[string]domain.Listing, error) {
	var body struct {
		Results map[string]domain.Listing `json:"results"`
	}

	response, err := c.client.R().
		SetContext(ctx).
		Get("/currencies")
	if err != nil {
		return nil, fmt.Errorf("%w: http get: %w", domain.ErrUnavailable, err)
	}
	if err := checkResponse(response); err != nil {
		return nil, fmt.Errorf("%w: currencies: %w", domain.ErrUnavailable, err)
	}
	if err := json.Unmarshal(response.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: decoding json: %w", domain.ErrUnavailable, err)
	}
	if len(body.Results) == 0 {
		return nil, fmt.Errorf("%w: no currencies listed", domain.ErrUnavailable)
	}
	return body.Results, nil
}

// checkResponse rejects anything but a 200 with a body of known length.
// A length hidden by transparent decompression is accepted.
func checkResponse(r *resty.Response) error {
	if r.StatusCode() != http.StatusOK {
		return fmt.Errorf("http status %d", r.StatusCode())
	}
	raw := r.RawResponse
	if raw != nil && raw.ContentLength < 0 && !raw.Uncompressed {
		return ErrNoContentLength
	}
	if len(r.Body()) == 0 {
		return ErrEmptyResponse
	}
	return nil
}
