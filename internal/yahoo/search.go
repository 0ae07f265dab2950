package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

const (
	// SearchURL is the public Yahoo Finance symbol search host.
	SearchURL = "https://query2.finance.yahoo.com"

	maxMatches = 10
)

// ErrRateLimited is returned when Yahoo answers 429.
var ErrRateLimited = errors.New("yahoo finance rate limit reached, wait a minute and try again")

// Searcher looks up ticker symbols by company or asset name.
type Searcher struct {
	BaseURL string
	HTTP    *http.Client
}

func NewSearcher() *Searcher {
	return &Searcher{
		BaseURL: SearchURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResp struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
}

// Search returns at most ten matches for query. No matches is not an error.
func (s *Searcher) Search(ctx context.Context, query string) ([]market.Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("yahoo: empty search query")
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = "/v1/finance/search"
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	httpClient := s.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("yahoo search http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out searchResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("yahoo search: decode: %w", err)
	}

	n := min(len(out.Quotes), maxMatches)
	matches := make([]market.Match, 0, n)
	for _, r := range out.Quotes[:n] {
		name := r.ShortName
		if name == "" {
			name = r.LongName
		}
		matches = append(matches, market.Match{Symbol: r.Symbol, Name: name, Exchange: r.Exchange})
	}
	return matches, nil
}
