package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/markcheno/go-quote"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	fquote "github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

// Bars iterates chart bars. *chart.Iter satisfies it. Meta is filled
// once Next has fetched the first page.
type Bars interface {
	Next() bool
	Bar() *finance.ChartBar
	Meta() finance.ChartMeta
	Err() error
}

// Client reads quotes, names and daily bars from Yahoo Finance. The
// function fields default to the finance-go calls and are replaced in
// tests.
type Client struct {
	Quote  func(symbol string) (*finance.Quote, error)
	Equity func(symbol string) (*finance.Equity, error)
	Chart  func(p *chart.Params) Bars
	Now    func() time.Time
	Log    *zap.Logger
}

func NewClient(log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		Quote:  fquote.Get,
		Equity: equity.Get,
		Chart:  func(p *chart.Params) Bars { return chart.Get(p) },
		Now:    time.Now,
		Log:    log,
	}
}

// LastPrice returns the regular market price of symbol.
func (c *Client) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, err
	}
	q, err := c.Quote(symbol)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", market.ErrNoData, symbol)
	}
	return decimal.NewFromFloat(q.RegularMarketPrice), nil
}

// Validate reports whether symbol has any daily bars in the last week.
func (c *Client) Validate(ctx context.Context, symbol string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.TrimSpace(symbol) == "" {
		return false, nil
	}
	end := c.Now()
	it := c.Chart(&chart.Params{
		Symbol:   symbol,
		Interval: datetime.OneDay,
		Start:    day(end.AddDate(0, 0, -7)),
		End:      day(end.AddDate(0, 0, 1)),
	})
	found := it.Next()
	if err := it.Err(); err != nil {
		return false, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if !found {
		c.Log.Info("symbol is not valid or has no data (possibly delisted)", zap.String("symbol", symbol))
	}
	return found, nil
}

// Names returns the short and long display names of symbol. The long name
// falls back to the short one. Both are empty when Yahoo knows neither.
func (c *Client) Names(ctx context.Context, symbol string) (short, long string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	eq, err := c.Equity(symbol)
	if err != nil {
		return "", "", fmt.Errorf("yahoo equity %s: %w", symbol, err)
	}
	if eq == nil {
		return "", "", nil
	}
	short = strings.TrimSpace(eq.ShortName)
	long = strings.TrimSpace(eq.LongName)
	if long == "" {
		long = short
	}
	return short, long, nil
}

// DisplayName prefers the long name and falls back to "Unknown".
func (c *Client) DisplayName(ctx context.Context, symbol string) (string, error) {
	short, long, err := c.Names(ctx, symbol)
	if err != nil {
		return "", err
	}
	switch {
	case long != "":
		return long, nil
	case short != "":
		return short, nil
	default:
		return "Unknown", nil
	}
}

// DailyHistory downloads every available daily bar for symbol.
func (c *Client) DailyHistory(ctx context.Context, symbol string) (quote.Quote, error) {
	q := quote.NewQuote(symbol, 0)
	if err := ctx.Err(); err != nil {
		return q, err
	}
	it := c.Chart(&chart.Params{
		Symbol:   symbol,
		Interval: datetime.OneDay,
		Start:    &datetime.Datetime{Year: 1970, Month: 1, Day: 1},
		End:      day(c.Now().AddDate(0, 0, 1)),
	})
	var loc *time.Location
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return q, err
		}
		if loc == nil {
			loc = c.exchangeLocation(symbol, it.Meta())
		}
		b := it.Bar()
		q.Date = append(q.Date, time.Unix(int64(b.Timestamp), 0).In(loc))
		q.Open = append(q.Open, b.Open.InexactFloat64())
		q.High = append(q.High, b.High.InexactFloat64())
		q.Low = append(q.Low, b.Low.InexactFloat64())
		q.Close = append(q.Close, b.Close.InexactFloat64())
		q.Volume = append(q.Volume, float64(b.Volume))
	}
	if err := it.Err(); err != nil {
		return q, fmt.Errorf("yahoo history %s: %w", symbol, err)
	}
	c.Log.Debug("history downloaded", zap.String("symbol", symbol), zap.Int("bars", len(q.Close)))
	return q, nil
}

// exchangeLocation is the zone daily bars are dated in. Bars are stamped
// at the session open, which for Asia-Pacific venues is still the previous
// day in UTC.
func (c *Client) exchangeLocation(symbol string, m finance.ChartMeta) *time.Location {
	if m.ExchangeTimezoneName != "" {
		loc, err := time.LoadLocation(m.ExchangeTimezoneName)
		if err == nil {
			return loc
		}
		c.Log.Warn("unknown exchange timezone", zap.String("symbol", symbol), zap.String("tz", m.ExchangeTimezoneName), zap.Error(err))
	}
	if m.Gmtoffset != 0 {
		return time.FixedZone(m.Timezone, m.Gmtoffset)
	}
	return time.UTC
}

func day(t time.Time) *datetime.Datetime {
	return &datetime.Datetime{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}
