package coingecko

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	BaseURL      = "https://api.coingecko.com"
	DefaultLimit = 50
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: BaseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Coin is one market entry ranked by market capitalisation.
type Coin struct {
	Rank      int
	Symbol    string
	Name      string
	Price     decimal.Decimal
	MarketCap decimal.Decimal
}

type apiCoin struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	MarketCap    decimal.Decimal `json:"market_cap"`
}

// TopMarkets returns the limit largest coins by market cap, priced in USD.
func (c *Client) TopMarkets(ctx context.Context, limit int) ([]Coin, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("coingecko: limit must be positive")
	}
	base := c.BaseURL
	if base == "" {
		base = BaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	u.Path = "/api/v3/coins/markets"
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(limit))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("coingecko http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var raw []apiCoin
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("coingecko: decode: %w", err)
	}

	coins := make([]Coin, 0, len(raw))
	for i, r := range raw {
		coins = append(coins, Coin{
			Rank:      i + 1,
			Symbol:    strings.ToUpper(r.Symbol),
			Name:      r.Name,
			Price:     r.CurrentPrice.Round(2),
			MarketCap: r.MarketCap.Round(2),
		})
	}
	return coins, nil
}

// FileName is the CSV the top-N list is saved to.
func FileName(limit int) string {
	return fmt.Sprintf("top_%d_cryptocoin.csv", limit)
}

var header = []string{"Rank", "Symbol", "Name", "Price (USD)", "Market Cap (USD)"}

func WriteCSV(w io.Writer, coins []Coin) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range coins {
		row := []string{strconv.Itoa(c.Rank), c.Symbol, c.Name, c.Price.String(), c.MarketCap.String()}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable prints coins as an aligned table for the terminal.
func WriteTable(w io.Writer, coins []Coin) error {
	if _, err := fmt.Fprintf(w, "%4s  %-8s %-24s %16s %22s\n", header[0], header[1], header[2], header[3], header[4]); err != nil {
		return err
	}
	for _, c := range coins {
		if _, err := fmt.Fprintf(w, "%4d  %-8s %-24s %16s %22s\n", c.Rank, c.Symbol, c.Name, c.Price.StringFixed(2), c.MarketCap.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}
