package alphavantage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// BaseName is the file stem for a symbol/function pair, e.g. AAPL_TIME_SERIES_DAILY.
func BaseName(symbol, function string) string {
	return symbol + "_" + function
}

// SaveJSON writes the raw response indented under dir. With compress set
// the file is xz-compressed and gets a .json.xz suffix.
func SaveJSON(dir string, s *Series, compress bool) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, s.Raw, "", "    "); err != nil {
		return "", fmt.Errorf("indent json: %w", err)
	}

	path := filepath.Join(dir, BaseName(s.Symbol, s.Function)+".json")
	if compress {
		path += ".xz"
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeMaybeXZ(f, buf.Bytes(), compress); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func writeMaybeXZ(w io.Writer, b []byte, compress bool) error {
	if !compress {
		_, err := w.Write(b)
		return err
	}
	xw, err := xz.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := xw.Write(b); err != nil {
		xw.Close()
		return err
	}
	return xw.Close()
}

// SaveCSV writes the bars of s as date,symbol,open,high,low,close,volume.
func SaveCSV(dir string, s *Series) (string, error) {
	path := filepath.Join(dir, BaseName(s.Symbol, s.Function)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func WriteCSV(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "symbol", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range s.Bars {
		if err := cw.Write([]string{b.Date, s.Symbol, b.Open, b.High, b.Low, b.Close, b.Volume}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
