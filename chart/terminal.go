package chart

import (
	"bufio"
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

const clearScreen = "\033[H\033[2J"

// Terminal redraws a line chart of the whole series after every sample.
// Write errors are logged and swallowed so a broken display never stops
// sampling.
type Terminal struct {
	Out    io.Writer
	In     io.Reader // read on Close to wait for dismissal; nil skips the wait
	// Done aborts the wait for dismissal when closed, e.g. on Ctrl-C.
	Done   <-chan struct{}
	Height int
	Width  int
	Log    *zap.Logger

	symbol string
	last   string
}

func NewTerminal(out io.Writer, in io.Reader, log *zap.Logger) *Terminal {
	if log == nil {
		log = zap.NewNop()
	}
	return &Terminal{Out: out, In: in, Height: 15, Width: 72, Log: log}
}

func (t *Terminal) Open(s market.Session) error {
	t.symbol = s.Symbol
	return nil
}

func (t *Terminal) Record(_ market.Sample, ser *market.Series) error {
	t.last = t.Render(ser)
	if _, err := io.WriteString(t.Out, clearScreen+t.last+"\n"); err != nil {
		t.Log.Warn("chart redraw failed", zap.String("symbol", t.symbol), zap.Error(err))
	}
	return nil
}

// Close leaves the last frame on screen and waits for Enter or Done.
// A session without samples still gets an empty frame.
func (t *Terminal) Close() error {
	frame := t.last
	if frame == "" {
		frame = fmt.Sprintf("%s - Live Price ($)  no samples recorded", t.symbol)
	}
	if _, err := fmt.Fprintf(t.Out, "\n%s\nPress Enter to close the chart.\n", frame); err != nil {
		t.Log.Warn("chart final render failed", zap.Error(err))
		return nil
	}
	t.wait()
	return nil
}

func (t *Terminal) wait() {
	if t.In == nil {
		return
	}
	read := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(t.In).ReadString('\n')
		close(read)
	}()
	select {
	case <-read:
	case <-t.Done:
		t.Log.Debug("chart dismissed by cancellation", zap.String("symbol", t.symbol))
	}
}

// Render draws the series as an ASCII line chart.
func (t *Terminal) Render(ser *market.Series) string {
	values := ser.Floats()
	lo, hi, ok := Bounds(values)
	if !ok {
		return ""
	}

	opts := []asciigraph.Option{
		asciigraph.Height(t.Height),
		asciigraph.LowerBound(lo),
		asciigraph.UpperBound(hi),
		asciigraph.Precision(2),
		asciigraph.Caption(t.caption(ser)),
	}
	if t.Width > 0 && len(values) > t.Width {
		opts = append(opts, asciigraph.Width(t.Width))
	}
	return asciigraph.Plot(values, opts...)
}

func (t *Terminal) caption(ser *market.Series) string {
	samples := ser.Samples()
	first, last := samples[0], samples[len(samples)-1]
	return fmt.Sprintf("%s - Live Price ($)  %s .. %s  last %s",
		t.symbol,
		first.Time.Format("15:04:05"),
		last.Time.Format("15:04:05"),
		last.Price.String(),
	)
}

// Discard drops the display without the final frame.
func (t *Terminal) Discard() error {
	t.last = ""
	return nil
}
