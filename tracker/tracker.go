package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
	"github.com/Arzazrel/Project-LSMSDB-25/pkg/id"
)

// ErrTooManyFailures ends a session after MaxFailures consecutive failed fetches.
var ErrTooManyFailures = errors.New("too many consecutive fetch failures")

// Config is fixed for the lifetime of a session.
type Config struct {
	Symbol    string
	Duration  time.Duration
	Refresh   time.Duration
	Persist   bool
	Visualize bool

	// MaxFailures stops the run after this many failed ticks in a row.
	// Zero means never.
	MaxFailures int
}

func (c Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if c.Refresh <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	if c.MaxFailures < 0 {
		return fmt.Errorf("max failures must not be negative")
	}
	return nil
}

type State int

const (
	Sampling State = iota
	Done
)

func (s State) String() string {
	switch s {
	case Sampling:
		return "sampling"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TickResult is the outcome of one fetch attempt.
type TickResult struct {
	N      int
	Sample market.Sample
	Err    error
}

func (r TickResult) OK() bool { return r.Err == nil }

// Report summarizes a session.
type Report struct {
	Session   market.Session
	State     State
	Attempted int
	Recorded  int
	Failed    int
	Ticks     []TickResult
}

// Tracker polls a PriceSource and publishes samples to its sinks.
type Tracker struct {
	Source market.PriceSource
	Sinks  []Sink
	Log    *zap.Logger

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
	NewID func() string
}

func New(src market.PriceSource, log *zap.Logger, sinks ...Sink) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		Source: src,
		Sinks:  sinks,
		Log:    log,
		Now:    time.Now,
		Sleep:  sleepCtx,
		NewID:  id.New,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run validates the symbol, then samples until cfg.Duration has elapsed.
// An invalid symbol returns market.ErrInvalidSymbol before any sink is
// opened. Fetch failures are recorded in the report and do not stop the
// run; sink failures do.
func (t *Tracker) Run(ctx context.Context, cfg Config) (rep *Report, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	valid, err := t.Source.Validate(ctx, cfg.Symbol)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", cfg.Symbol, err)
	}
	if !valid {
		return nil, fmt.Errorf("%w: %s", market.ErrInvalidSymbol, cfg.Symbol)
	}

	start := t.Now()
	rep = &Report{
		Session: market.Session{
			ID:       t.NewID(),
			Symbol:   cfg.Symbol,
			Started:  start,
			Duration: cfg.Duration,
			Refresh:  cfg.Refresh,
		},
		State: Sampling,
	}
	deadline := start.Add(cfg.Duration)

	opened := make([]Sink, 0, len(t.Sinks))
	defer func() {
		if cerr := t.closeSinks(opened, err != nil); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for _, s := range t.Sinks {
		if err := s.Open(rep.Session); err != nil {
			return rep, fmt.Errorf("open sink: %w", err)
		}
		opened = append(opened, s)
	}

	log := t.Log.With(zap.String("symbol", cfg.Symbol), zap.String("session", rep.Session.ID))
	log.Debug("tracking started",
		zap.Duration("duration", cfg.Duration),
		zap.Duration("refresh", cfg.Refresh))

	var (
		ser    market.Series
		streak int
	)
	for t.Now().Before(deadline) {
		rep.Attempted++
		res, sinkErr := t.tick(ctx, cfg.Symbol, rep.Attempted, &ser)
		rep.Ticks = append(rep.Ticks, res)
		if sinkErr != nil {
			return rep, sinkErr
		}

		if res.OK() {
			rep.Recorded++
			streak = 0
		} else {
			rep.Failed++
			streak++
			log.Warn("error retrieving data", zap.Int("tick", res.N), zap.Error(res.Err))
			if cfg.MaxFailures > 0 && streak >= cfg.MaxFailures {
				return rep, fmt.Errorf("%w: %d in a row", ErrTooManyFailures, streak)
			}
		}

		if err := t.Sleep(ctx, cfg.Refresh); err != nil {
			return rep, err
		}
	}

	rep.State = Done
	log.Debug("tracking finished",
		zap.Int("attempted", rep.Attempted),
		zap.Int("recorded", rep.Recorded),
		zap.Int("failed", rep.Failed))
	return rep, nil
}

// tick performs one fetch. The returned error is a sink failure and is
// fatal; fetch failures are carried in the TickResult.
func (t *Tracker) tick(ctx context.Context, symbol string, n int, ser *market.Series) (TickResult, error) {
	res := TickResult{N: n}

	price, err := t.Source.LastPrice(ctx, symbol)
	if err != nil {
		res.Err = err
		return res, nil
	}

	res.Sample = market.Sample{Time: t.Now(), Price: price}
	if err := ser.Append(res.Sample); err != nil {
		res.Err = err
		return res, nil
	}

	for _, s := range t.Sinks {
		if err := s.Record(res.Sample, ser); err != nil {
			return res, fmt.Errorf("record sample %d: %w", n, err)
		}
	}
	return res, nil
}

func (t *Tracker) closeSinks(sinks []Sink, aborted bool) error {
	var errs []error
	for _, s := range sinks {
		var err error
		if d, ok := s.(Discarder); ok && aborted {
			err = d.Discard()
		} else {
			err = s.Close()
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
