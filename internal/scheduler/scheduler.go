package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job refreshes the data of one symbol.
type Job func(ctx context.Context, symbol string) error

// Scheduler runs a Job over a fixed symbol list on a cron schedule. The
// symbols of one run are processed one after another and a run that is
// still going when the next one is due is skipped.
type Scheduler struct {
	Cron    *cron.Cron
	Job     Job
	Symbols []string
	Log     *zap.Logger
}

func New(job Job, symbols []string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Job:     job,
		Symbols: symbols,
		Log:     log,
	}
}

// ParseSymbols splits a comma separated list, dropping blanks and
// upper-casing each symbol.
func ParseSymbols(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Register schedules a run of every symbol at spec (six fields, seconds
// first, or a descriptor such as @daily).
func (s *Scheduler) Register(ctx context.Context, spec string) error {
	if len(s.Symbols) == 0 {
		return fmt.Errorf("no symbols to schedule")
	}
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow(ctx) }); err != nil {
		return fmt.Errorf("register %q: %w", spec, err)
	}
	return nil
}

// RunNow processes every symbol once. Failures are logged and counted.
func (s *Scheduler) RunNow(ctx context.Context) (failed int) {
	s.Log.Info("scheduled refresh started", zap.Int("symbols", len(s.Symbols)))
	for _, sym := range s.Symbols {
		if ctx.Err() != nil {
			break
		}
		if err := s.Job(ctx, sym); err != nil {
			failed++
			s.Log.Error("refresh failed", zap.String("symbol", sym), zap.Error(err))
		}
	}
	s.Log.Info("scheduled refresh finished", zap.Int("failed", failed))
	return failed
}

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
	<-ctx.Done()
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
