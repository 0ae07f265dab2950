// journal/csv.go
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

// RealtimeCSVName is the file a tracking session for symbol is written to.
func RealtimeCSVName(symbol string) string {
	return symbol + "_realtime_price.csv"
}

// PriceCSV appends samples to a timestamp,price CSV file. The file is
// reopened and closed on every row so a crash loses at most the row in
// flight.
type PriceCSV struct {
	Path string
}

func NewPriceCSV(dir, symbol string) *PriceCSV {
	return &PriceCSV{Path: filepath.Join(dir, RealtimeCSVName(symbol))}
}

// Open creates or truncates the file and writes the header.
func (j *PriceCSV) Open(market.Session) error {
	f, err := os.Create(j.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", j.Path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "price"}); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (j *PriceCSV) Record(s market.Sample, _ *market.Series) error {
	f, err := os.OpenFile(j.Path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", j.Path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{s.Time.Format(TimeLayout), s.Price.String()}); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (j *PriceCSV) Close() error {
	return nil
}
