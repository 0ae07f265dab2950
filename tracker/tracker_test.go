package tracker

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Arzazrel/Project-LSMSDB-25/journal"
	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

// fakeClock advances only when the tracker sleeps or a fetch costs time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

// scriptedSource returns prices in order; a nil entry fails that call.
type scriptedSource struct {
	clock  *fakeClock
	cost   time.Duration
	prices []*decimal.Decimal
	calls  int
}

func (s *scriptedSource) Validate(context.Context, string) (bool, error) { return true, nil }

func (s *scriptedSource) LastPrice(context.Context, string) (decimal.Decimal, error) {
	s.clock.now = s.clock.now.Add(s.cost)
	i := s.calls
	s.calls++
	if i < len(s.prices) && s.prices[i] == nil {
		return decimal.Decimal{}, errors.New("yahoo: connection reset")
	}
	return decimal.NewFromFloat(100 + float64(i)), nil
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Validate(ctx context.Context, symbol string) (bool, error) {
	args := m.Called(ctx, symbol)
	return args.Bool(0), args.Error(1)
}

func (m *mockSource) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// recordingSink remembers what it saw and can fail on demand.
type recordingSink struct {
	opened    bool
	closed    bool
	discarded bool
	samples   []market.Sample
	failOn    int
	onRecord  func()
}

func (r *recordingSink) Open(market.Session) error { r.opened = true; return nil }

func (r *recordingSink) Record(s market.Sample, _ *market.Series) error {
	if r.onRecord != nil {
		r.onRecord()
	}
	r.samples = append(r.samples, s)
	if r.failOn > 0 && len(r.samples) == r.failOn {
		return errors.New("disk full")
	}
	return nil
}

func (r *recordingSink) Close() error   { r.closed = true; return nil }
func (r *recordingSink) Discard() error { r.discarded = true; return nil }

func newTestTracker(src market.PriceSource, clock *fakeClock, sinks ...Sink) *Tracker {
	tr := New(src, nil, sinks...)
	tr.Now = clock.Now
	tr.Sleep = clock.Sleep
	tr.NewID = func() string { return "01TESTSESSION0000000000000" }
	return tr
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func start() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)}
}

func TestRunThreeSecondsOneSecondRefresh(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock}
	dir := t.TempDir()
	cfg := Config{Symbol: "AAPL", Duration: 3 * time.Second, Refresh: time.Second, Persist: true}

	file := journal.NewPriceCSV(dir, "AAPL")
	tr := newTestTracker(src, clock, cfg.Sinks(nil, file, nil, nil)...)

	rep, err := tr.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, Done, rep.State)
	assert.Equal(t, 3, rep.Attempted)
	assert.Equal(t, 3, rep.Recorded)
	assert.Zero(t, rep.Failed)

	rows := readRows(t, filepath.Join(dir, "AAPL_realtime_price.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"timestamp", "price"}, rows[0])

	var prev time.Time
	for _, row := range rows[1:] {
		ts, err := time.Parse(journal.TimeLayout, row[0])
		require.NoError(t, err)
		assert.True(t, ts.After(prev), "timestamps must strictly increase")
		prev = ts

		p, err := decimal.NewFromString(row[1])
		require.NoError(t, err)
		assert.True(t, p.IsPositive())
	}
}

func TestRunTickCountMatchesCeil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		refresh  time.Duration
		cost     time.Duration
	}{
		{"exact", 5 * time.Second, time.Second, 0},
		{"fractional", 2500 * time.Millisecond, time.Second, 0},
		{"slow fetch", 3 * time.Second, time.Second, 200 * time.Millisecond},
		{"sub second refresh", time.Second, 300 * time.Millisecond, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := start()
			src := &scriptedSource{clock: clock, cost: tt.cost}
			tr := newTestTracker(src, clock)

			rep, err := tr.Run(context.Background(), Config{Symbol: "AAPL", Duration: tt.duration, Refresh: tt.refresh})
			require.NoError(t, err)

			want := int(math.Ceil(float64(tt.duration) / float64(tt.refresh)))
			assert.InDelta(t, want, rep.Attempted, 1)
			assert.Equal(t, rep.Attempted, src.calls)
		})
	}
}

func TestRunFailureOnSecondTickSkipsRow(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock, prices: []*decimal.Decimal{price("1"), nil, price("1")}}
	dir := t.TempDir()
	cfg := Config{Symbol: "AAPL", Duration: 3 * time.Second, Refresh: time.Second, Persist: true}

	file := journal.NewPriceCSV(dir, "AAPL")
	tr := newTestTracker(src, clock, cfg.Sinks(nil, file, nil, nil)...)

	rep, err := tr.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Attempted)
	assert.Equal(t, 2, rep.Recorded)
	assert.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Ticks, 3)
	assert.True(t, rep.Ticks[0].OK())
	assert.False(t, rep.Ticks[1].OK())
	assert.True(t, rep.Ticks[2].OK())

	rows := readRows(t, file.Path)
	assert.Len(t, rows, 3, "header plus ticks 1 and 3")
}

func TestRunZeroDuration(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock}
	dir := t.TempDir()
	cfg := Config{Symbol: "AAPL", Duration: 0, Refresh: time.Second, Persist: true}

	file := journal.NewPriceCSV(dir, "AAPL")
	tr := newTestTracker(src, clock, cfg.Sinks(nil, file, nil, nil)...)

	rep, err := tr.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, Done, rep.State)
	assert.Zero(t, rep.Attempted)
	assert.Zero(t, src.calls)
	assert.Equal(t, [][]string{{"timestamp", "price"}}, readRows(t, file.Path))
}

func TestRunWithoutPersistCreatesNoFile(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock}
	dir := t.TempDir()
	cfg := Config{Symbol: "AAPL", Duration: 2 * time.Second, Refresh: time.Second, Persist: false}

	var out bytes.Buffer
	file := journal.NewPriceCSV(dir, "AAPL")
	tr := newTestTracker(src, clock, cfg.Sinks(Console{Out: &out}, file, nil, nil)...)

	rep, err := tr.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Recorded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, "15:00:00\t100\n15:00:01\t101\n", out.String())
}

func TestConsoleHeaderPrintedAfterValidation(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock}
	cfg := Config{Symbol: "AAPL", Duration: time.Second, Refresh: time.Second}

	var out bytes.Buffer
	console := Console{Out: &out, Header: "=== Live Tracker for AAPL ===\n"}
	tr := newTestTracker(src, clock, cfg.Sinks(console, nil, nil, nil)...)

	_, err := tr.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "=== Live Tracker for AAPL ===\n15:00:00\t100\n", out.String())

	bad := &mockSource{}
	bad.On("Validate", mock.Anything, "ZZZZ").Return(false, nil)
	out.Reset()
	_, err = newTestTracker(bad, start(), console).Run(context.Background(), Config{Symbol: "ZZZZ", Duration: time.Second, Refresh: time.Second})
	require.ErrorIs(t, err, market.ErrInvalidSymbol)
	assert.Empty(t, out.String())
}

func TestRunInvalidSymbolHasNoSideEffects(t *testing.T) {
	t.Parallel()

	src := &mockSource{}
	src.On("Validate", mock.Anything, "ZZZZ").Return(false, nil)

	dir := t.TempDir()
	sink := &recordingSink{}
	file := journal.NewPriceCSV(dir, "ZZZZ")
	tr := newTestTracker(src, start(), file, sink)

	rep, err := tr.Run(context.Background(), Config{Symbol: "ZZZZ", Duration: time.Minute, Refresh: time.Second, Persist: true})
	require.ErrorIs(t, err, market.ErrInvalidSymbol)
	assert.Nil(t, rep)
	assert.False(t, sink.opened)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	src.AssertExpectations(t)
	src.AssertNotCalled(t, "LastPrice", mock.Anything, mock.Anything)
}

func TestRunValidateError(t *testing.T) {
	t.Parallel()

	src := &mockSource{}
	src.On("Validate", mock.Anything, "AAPL").Return(false, errors.New("rate limited"))

	tr := newTestTracker(src, start())
	_, err := tr.Run(context.Background(), Config{Symbol: "AAPL", Duration: time.Second, Refresh: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate AAPL")
}

func TestRunMockSourceEveryTick(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &mockSource{}
	src.On("Validate", mock.Anything, "BTC-USD").Return(true, nil)
	src.On("LastPrice", mock.Anything, "BTC-USD").Return(decimal.RequireFromString("64123.5"), nil)

	sink := &recordingSink{}
	tr := newTestTracker(src, clock, sink)

	rep, err := tr.Run(context.Background(), Config{Symbol: "BTC-USD", Duration: 4 * time.Second, Refresh: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Recorded)
	assert.True(t, sink.opened)
	assert.True(t, sink.closed)
	assert.False(t, sink.discarded)
	require.Len(t, sink.samples, 2)
	assert.True(t, sink.samples[1].Price.Equal(decimal.RequireFromString("64123.5")))
	src.AssertNumberOfCalls(t, "LastPrice", 2)
}

func TestRunMaxFailures(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock, prices: []*decimal.Decimal{price("1"), nil, nil, nil, price("1")}}
	tr := newTestTracker(src, clock)

	rep, err := tr.Run(context.Background(), Config{Symbol: "AAPL", Duration: time.Minute, Refresh: time.Second, MaxFailures: 3})
	require.ErrorIs(t, err, ErrTooManyFailures)
	assert.Equal(t, 4, rep.Attempted)
	assert.Equal(t, 3, rep.Failed)
	assert.Equal(t, Sampling, rep.State)
}

func TestRunUnlimitedFailures(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock, prices: []*decimal.Decimal{nil, nil, nil, nil, nil}}
	tr := newTestTracker(src, clock)

	rep, err := tr.Run(context.Background(), Config{Symbol: "AAPL", Duration: 5 * time.Second, Refresh: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Failed)
	assert.Zero(t, rep.Recorded)
}

func TestRunSinkErrorIsFatal(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock}
	bad := &recordingSink{failOn: 2}
	after := &recordingSink{}
	tr := newTestTracker(src, clock, bad, after)

	rep, err := tr.Run(context.Background(), Config{Symbol: "AAPL", Duration: 10 * time.Second, Refresh: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 2, rep.Attempted)
	assert.Len(t, after.samples, 1, "later sinks never see the failed sample")
	assert.True(t, bad.discarded)
	assert.True(t, after.discarded)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock}
	ctx, cancel := context.WithCancel(context.Background())

	sink := &recordingSink{}
	sink.onRecord = cancel
	tr := newTestTracker(src, clock, sink)

	rep, err := tr.Run(ctx, Config{Symbol: "AAPL", Duration: time.Minute, Refresh: time.Second})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, rep.Recorded)
	assert.True(t, sink.discarded)
	assert.False(t, sink.closed)
}

func TestRunWritesBeforeDisplay(t *testing.T) {
	t.Parallel()

	clock := start()
	src := &scriptedSource{clock: clock}
	dir := t.TempDir()
	cfg := Config{Symbol: "AAPL", Duration: 3 * time.Second, Refresh: time.Second, Persist: true, Visualize: true}

	file := journal.NewPriceCSV(dir, "AAPL")
	display := &recordingSink{}
	display.onRecord = func() {
		rows := readRows(t, file.Path)
		assert.Len(t, rows, len(display.samples)+2, "row must be on disk before display")
	}

	tr := newTestTracker(src, clock, cfg.Sinks(nil, file, nil, display)...)
	_, err := tr.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, display.samples, 3)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{Symbol: "AAPL", Duration: time.Minute, Refresh: time.Second}, ""},
		{"zero duration ok", Config{Symbol: "AAPL", Refresh: time.Second}, ""},
		{"missing symbol", Config{Duration: time.Minute, Refresh: time.Second}, "symbol is required"},
		{"negative duration", Config{Symbol: "AAPL", Duration: -1, Refresh: time.Second}, "duration must not be negative"},
		{"zero refresh", Config{Symbol: "AAPL", Duration: time.Minute}, "refresh interval must be positive"},
		{"negative failures", Config{Symbol: "AAPL", Refresh: time.Second, MaxFailures: -1}, "max failures"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigSinksOrder(t *testing.T) {
	console, file, jr, chart := &recordingSink{}, &recordingSink{}, &recordingSink{}, &recordingSink{}

	all := Config{Persist: true, Visualize: true}.Sinks(console, file, jr, chart)
	assert.Equal(t, []Sink{console, file, jr, chart}, all)

	none := Config{}.Sinks(console, file, nil, chart)
	assert.Equal(t, []Sink{console}, none)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "sampling", Sampling.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "State(7)", State(7).String())
}
