package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Arzazrel/Project-LSMSDB-25/internal/csvutil"
)

const (
	DefaultOutput = "enriched_assets.csv"
	NotAvailable  = "N/A"
)

// FallbackColumns hold a company name in common index listings. The first
// one present supplies the short name when Yahoo cannot.
var FallbackColumns = []string{"Security", "Company Name"}

// NameSource resolves display names for ticker symbols.
type NameSource interface {
	Validate(ctx context.Context, symbol string) (bool, error)
	Names(ctx context.Context, symbol string) (short, long string, err error)
}

// Stats counts how each row was resolved.
type Stats struct {
	Rows    int
	Named   int
	Blank   int
	Invalid int
	Unnamed int
}

type Enricher struct {
	Source NameSource
	Log    *zap.Logger
}

func New(src NameSource, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{Source: src, Log: log}
}

// Enrich returns a table with "Short Name" and "Long Name" inserted after
// the symbol column. The fallback name columns are dropped; every other
// column is kept in its original order.
func (e *Enricher) Enrich(ctx context.Context, in *csvutil.Table) (*csvutil.Table, Stats, error) {
	var st Stats
	symIdx := in.Index("symbol")
	if symIdx < 0 {
		return nil, st, fmt.Errorf("the input CSV does not contain the 'symbol' column, columns found: %v", in.Header)
	}
	fbIdx := -1
	for _, name := range FallbackColumns {
		if i := in.Index(name); i >= 0 {
			fbIdx = i
			break
		}
	}

	drop := map[int]bool{symIdx: true}
	for _, name := range FallbackColumns {
		if i := in.Index(name); i >= 0 {
			drop[i] = true
		}
	}
	var keep []int
	for i := range in.Header {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	out := &csvutil.Table{
		Header: append([]string{"symbol", "Short Name", "Long Name"}, pick(in.Header, keep)...),
		Comma:  ',',
	}

	for _, row := range in.Rows {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		st.Rows++

		symbol := strings.ToUpper(strings.TrimSpace(row[symIdx]))
		fallback := ""
		if fbIdx >= 0 {
			fallback = strings.TrimSpace(row[fbIdx])
		}

		short, long := e.resolve(ctx, symbol, fallback, &st)
		out.Rows = append(out.Rows, append([]string{symbol, short, long}, pick(row, keep)...))
	}
	return out, st, nil
}

func (e *Enricher) resolve(ctx context.Context, symbol, fallback string, st *Stats) (short, long string) {
	if symbol == "" {
		st.Blank++
		return fallback, ""
	}

	ok, err := e.Source.Validate(ctx, symbol)
	if err != nil || !ok {
		st.Invalid++
		e.Log.Warn("no data or invalid symbol, marked as N/A", zap.String("symbol", symbol), zap.Error(err))
		return fallback, NotAvailable
	}

	short, long, err = e.Source.Names(ctx, symbol)
	if err != nil || (short == "" && long == "") {
		st.Unnamed++
		e.Log.Warn("unable to get names, writing N/A", zap.String("symbol", symbol), zap.Error(err))
		return NotAvailable, NotAvailable
	}
	st.Named++
	return short, long
}

func pick(row []string, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, row[i])
	}
	return out
}

// File enriches the CSV at in and writes the result to out.
func (e *Enricher) File(ctx context.Context, in, out string) (Stats, error) {
	t, err := csvutil.Read(in)
	if err != nil {
		return Stats{}, err
	}
	res, st, err := e.Enrich(ctx, t)
	if err != nil {
		return st, err
	}
	if err := res.Write(out); err != nil {
		return st, err
	}
	e.Log.Info("enriched file saved", zap.String("path", out), zap.Int("rows", st.Rows))
	return st, nil
}
