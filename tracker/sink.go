package tracker

import (
	"fmt"
	"io"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

// Sink receives every recorded sample of a session. Sinks are called in
// order, so a file sink placed before a display sink has written a sample
// before it is shown.
type Sink interface {
	Open(market.Session) error
	Record(market.Sample, *market.Series) error
	Close() error
}

// Discarder is implemented by sinks that should skip their normal
// finalization when a session ends abnormally.
type Discarder interface {
	Discard() error
}

// Console prints Header once the symbol is validated, then one line per
// sample.
type Console struct {
	Out    io.Writer
	Header string
}

func (c Console) Open(market.Session) error {
	if c.Header == "" {
		return nil
	}
	_, err := io.WriteString(c.Out, c.Header)
	return err
}

func (c Console) Record(s market.Sample, _ *market.Series) error {
	_, err := fmt.Fprintf(c.Out, "%s\t%s\n", s.Time.Format("15:04:05"), s.Price.String())
	return err
}

func (c Console) Close() error { return nil }

// Sinks assembles the outputs enabled by c in write-before-display order:
// console, file, journal, chart. Nil sinks are skipped.
func (c Config) Sinks(console, file, journal, chart Sink) []Sink {
	var out []Sink
	add := func(s Sink, enabled bool) {
		if s != nil && enabled {
			out = append(out, s)
		}
	}
	add(console, true)
	add(file, c.Persist)
	add(journal, true)
	add(chart, c.Visualize)
	return out
}
