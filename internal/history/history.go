package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/markcheno/go-quote"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

// Header is the column layout of every daily history CSV.
var Header = []string{"date", "symbol", "open", "high", "low", "close", "volume"}

// Format selects the file layout Save writes.
type Format string

const (
	CSV       Format = "csv"
	JSON      Format = "json"
	Amibroker Format = "amibroker"
	Highstock Format = "highstock"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", CSV:
		return CSV, nil
	case JSON, Amibroker, Highstock:
		return f, nil
	default:
		return "", fmt.Errorf("unknown history format %q (csv|json|amibroker|highstock)", s)
	}
}

// Source provides full daily history for a symbol.
type Source interface {
	DailyHistory(ctx context.Context, symbol string) (quote.Quote, error)
}

// FileName is where Save writes symbol's history in format f.
func FileName(symbol string, f Format) string {
	base := symbol + "_historical_daily"
	switch f {
	case JSON:
		return base + ".json"
	case Amibroker:
		return base + "_amibroker.csv"
	case Highstock:
		return base + "_highstock.json"
	default:
		return base + ".csv"
	}
}

// Download fetches symbol's history from src and saves it under dir.
// An empty history writes nothing and returns market.ErrNoData.
func Download(ctx context.Context, src Source, dir, symbol string, f Format) (string, error) {
	q, err := src.DailyHistory(ctx, symbol)
	if err != nil {
		return "", err
	}
	if len(q.Close) == 0 {
		return "", fmt.Errorf("%w: no data found for %s, check if the symbol is valid", market.ErrNoData, symbol)
	}
	path := filepath.Join(dir, FileName(symbol, f))
	if err := Save(path, q, f); err != nil {
		return "", err
	}
	return path, nil
}

// Save writes q to path in format f.
func Save(path string, q quote.Quote, f Format) error {
	Sort(&q)
	switch f {
	case JSON:
		return q.WriteJSON(path, true)
	case Amibroker:
		return q.WriteAmibroker(path)
	case Highstock:
		return q.WriteHighstock(path)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(file, q); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes q as date,symbol,open,high,low,close,volume rows.
func WriteCSV(w io.Writer, q quote.Quote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range q.Close {
		row := []string{
			q.Date[i].Format("2006-01-02"),
			q.Symbol,
			num(q.Open[i]),
			num(q.High[i]),
			num(q.Low[i]),
			num(q.Close[i]),
			strconv.FormatFloat(q.Volume[i], 'f', 0, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Sort orders the bars of q by ascending date.
func Sort(q *quote.Quote) {
	sort.Sort(byDate{q})
}

type byDate struct{ q *quote.Quote }

func (b byDate) Len() int           { return len(b.q.Date) }
func (b byDate) Less(i, j int) bool { return b.q.Date[i].Before(b.q.Date[j]) }
func (b byDate) Swap(i, j int) {
	q := b.q
	q.Date[i], q.Date[j] = q.Date[j], q.Date[i]
	q.Open[i], q.Open[j] = q.Open[j], q.Open[i]
	q.High[i], q.High[j] = q.High[j], q.High[i]
	q.Low[i], q.Low[j] = q.Low[j], q.Low[i]
	q.Close[i], q.Close[j] = q.Close[j], q.Close[i]
	q.Volume[i], q.Volume[j] = q.Volume[j], q.Volume[i]
}
