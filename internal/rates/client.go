package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrFetch indicates the quote provider was unreachable or returned a
// non-success status. No currencies are modified when it is returned.
var ErrFetch = errors.New("quote provider fetch failed")

// ErrMalformedResponse indicates a transport-level success whose body lacks
// the expected quotes collection.
var ErrMalformedResponse = errors.New("quote provider response missing quotes")

// Client fetches live quotes from the external provider. One bounded GET per
// call, no retries; the scheduler retries at the next invocation.
type Client struct {
	baseURL    string
	apiKey     string
	source     string
	currencies []string
	format     int
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey, source string, currencies []string, format int, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		source:     source,
		currencies: currencies,
		format:     format,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type liveResponse struct {
	Quotes map[string]decimal.Decimal `json:"quotes"`
}

// FetchQuotes performs the provider call and returns the composite-keyed
// quote map (e.g. "ZARUSD" -> 0.09 for source ZAR).
func (c *Client) FetchQuotes(ctx context.Context) (map[string]decimal.Decimal, error) {
	params := url.Values{}
	params.Set("access_key", c.apiKey)
	params.Set("currencies", strings.Join(c.currencies, ","))
	params.Set("source", c.source)
	params.Set("format", strconv.Itoa(c.format))

	reqURL := c.baseURL + "?" + params.Encode()
	c.logger.Debug("fetching quotes", zap.String("source", c.source), zap.Int("currencies", len(c.currencies)))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrFetch, err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, response.StatusCode)
	}

	var payload liveResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", ErrMalformedResponse, err)
	}
	if payload.Quotes == nil {
		return nil, ErrMalformedResponse
	}

	return payload.Quotes, nil
}
