package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	// BaseURL is the Alpha Vantage REST endpoint host.
	BaseURL = "https://www.alphavantage.co"

	DefaultInterval = "5min"
)

// Time series functions understood by TimeSeries.
const (
	Daily    = "TIME_SERIES_DAILY"
	Weekly   = "TIME_SERIES_WEEKLY"
	Monthly  = "TIME_SERIES_MONTHLY"
	Intraday = "TIME_SERIES_INTRADAY"
)

// ErrSeriesNotFound is returned when the response lacks the series key
// expected for the requested function.
var ErrSeriesNotFound = errors.New("alphavantage: time series not found in response")

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: BaseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type Request struct {
	Function   string // default TIME_SERIES_DAILY
	Symbol     string
	OutputSize string // compact|full, default full
	Interval   string // intraday only, default 5min
}

// Bar is one row of a time series. Values are kept as the API's decimal
// strings.
type Bar struct {
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// Series is a decoded time series response.
type Series struct {
	Symbol   string
	Function string
	Raw      json.RawMessage
	Bars     []Bar // ascending by date
}

// SeriesKey returns the JSON key holding the series for function, or ""
// for unsupported functions.
func SeriesKey(function, interval string) string {
	switch function {
	case Daily:
		return "Time Series (Daily)"
	case Weekly:
		return "Weekly Time Series"
	case Monthly:
		return "Monthly Time Series"
	case Intraday:
		if interval == "" {
			interval = DefaultInterval
		}
		return fmt.Sprintf("Time Series (%s)", interval)
	default:
		return ""
	}
}

type apiBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeries downloads one series. The raw body is returned even when the
// series key is missing so callers can still archive it.
func (c *Client) TimeSeries(ctx context.Context, req Request) (*Series, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("alphavantage: missing symbol")
	}
	if req.Function == "" {
		req.Function = Daily
	}
	if req.OutputSize == "" {
		req.OutputSize = "full"
	}

	params := url.Values{}
	params.Set("function", req.Function)
	params.Set("symbol", req.Symbol)
	params.Set("outputsize", req.OutputSize)
	params.Set("datatype", "json")
	if req.Function == Intraday {
		if req.Interval == "" {
			req.Interval = DefaultInterval
		}
		params.Set("interval", req.Interval)
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	s := &Series{Symbol: req.Symbol, Function: req.Function, Raw: body}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return s, fmt.Errorf("alphavantage: decode response: %w", err)
	}

	key := SeriesKey(req.Function, req.Interval)
	raw, ok := top[key]
	if key == "" || !ok {
		keys := make([]string, 0, len(top))
		for k := range top {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return s, fmt.Errorf("%w: expected %q, keys are %v", ErrSeriesNotFound, key, keys)
	}

	var bars map[string]apiBar
	if err := json.Unmarshal(raw, &bars); err != nil {
		return s, fmt.Errorf("alphavantage: decode %s: %w", key, err)
	}
	s.Bars = make([]Bar, 0, len(bars))
	for date, b := range bars {
		s.Bars = append(s.Bars, Bar{Date: date, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume})
	}
	sort.Slice(s.Bars, func(i, j int) bool { return s.Bars[i].Date < s.Bars[j].Date })
	return s, nil
}

// Match is one SYMBOL_SEARCH result.
type Match struct {
	Symbol string `json:"1. symbol"`
	Name   string `json:"2. name"`
	Region string `json:"4. region"`
}

// Search lists the best symbol matches for keywords.
func (c *Client) Search(ctx context.Context, keywords string) ([]Match, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, fmt.Errorf("alphavantage: empty search keywords")
	}
	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", keywords)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	var out struct {
		BestMatches []Match `json:"bestMatches"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("alphavantage: decode search: %w", err)
	}
	return out.BestMatches, nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("alphavantage: missing api key")
	}
	base := c.BaseURL
	if base == "" {
		base = BaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	u.Path = "/query"
	params.Set("apikey", c.APIKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("alphavantage http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return io.ReadAll(resp.Body)
}
