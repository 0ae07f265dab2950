// Package csvutil reads delimiter-separated files whose separator is not
// known in advance.
package csvutil

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SniffLines is the number of lines SniffDelimiter samples by default.
const SniffLines = 20

// Candidates are the delimiters SniffDelimiter chooses from, in order of
// preference.
var Candidates = []rune{',', ';', '\t', '|'}

var ErrEmpty = errors.New("csv: empty input")

// SniffDelimiter guesses the delimiter from the first n lines of r. The
// winner is the candidate that splits every sampled line into the same
// number of fields, more than one, with the highest field count. When no
// candidate qualifies the file is treated as single-column and ',' is
// returned.
func SniffDelimiter(r io.Reader, n int) (rune, error) {
	if n <= 0 {
		n = SniffLines
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for len(lines) < n && sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, ErrEmpty
	}

	sample := strings.Join(lines, "\n")
	best, bestFields := ',', 1
	for _, d := range Candidates {
		fields, ok := consistentFields(sample, d)
		if ok && fields > bestFields {
			best, bestFields = d, fields
		}
	}
	return best, nil
}

func consistentFields(sample string, d rune) (int, bool) {
	cr := csv.NewReader(strings.NewReader(sample))
	cr.Comma = d
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	recs, err := cr.ReadAll()
	if err != nil || len(recs) == 0 {
		return 0, false
	}
	n := len(recs[0])
	for _, r := range recs[1:] {
		if len(r) != n {
			return 0, false
		}
	}
	return n, n > 1
}

// SniffFile opens path and sniffs its delimiter.
func SniffFile(path string) (rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	d, err := SniffDelimiter(f, SniffLines)
	if err != nil {
		return 0, fmt.Errorf("sniff %s: %w", path, err)
	}
	return d, nil
}

// Table is a whole CSV file held in memory.
type Table struct {
	Header []string
	Rows   [][]string
	Comma  rune
}

// Read loads path with a sniffed delimiter. Short rows are padded to the
// header width.
func Read(path string) (*Table, error) {
	comma, err := SniffFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("read %s: %w", path, ErrEmpty)
	}

	t := &Table{Header: recs[0], Comma: comma}
	for i := range t.Header {
		t.Header[i] = strings.TrimSpace(strings.TrimPrefix(t.Header[i], "\ufeff"))
	}
	for _, r := range recs[1:] {
		for len(r) < len(t.Header) {
			r = append(r, "")
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

// Index returns the position of column name, matched case-insensitively
// when no exact match exists, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Column returns every value of column name.
func (t *Table) Column(name string) ([]string, error) {
	i := t.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("column %q not found, columns are %v", name, t.Header)
	}
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r[i])
	}
	return out, nil
}

// ReadColumn loads one column of path.
func ReadColumn(path, name string) ([]string, error) {
	t, err := Read(path)
	if err != nil {
		return nil, err
	}
	return t.Column(name)
}

// CountRows returns the number of data rows in path, excluding the header.
func CountRows(path string) (int, error) {
	t, err := Read(path)
	if err != nil {
		return 0, err
	}
	return len(t.Rows), nil
}

// ConvertedName is the default output path of Convert for in.
func ConvertedName(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + "_converted.csv"
}

// Convert rewrites in to out with delimiter to. A zero from sniffs the
// input delimiter.
func Convert(in, out string, from, to rune) error {
	if from == 0 {
		d, err := SniffFile(in)
		if err != nil {
			return err
		}
		from = d
	}

	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}

	cr := csv.NewReader(src)
	cr.Comma = from
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cw := csv.NewWriter(dst)
	cw.Comma = to

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			dst.Close()
			return fmt.Errorf("read %s: %w", in, err)
		}
		if err := cw.Write(rec); err != nil {
			dst.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// Write saves t to path with a comma delimiter.
func (t *Table) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(t.Header); err != nil {
		f.Close()
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ParseDelimiter accepts a single character or one of the names comma,
// semicolon, tab and pipe.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}
