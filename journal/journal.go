// journal/journal.go
package journal

import (
	"time"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

// TimeLayout is ISO-8601 with microseconds, as written to every CSV sample row.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Journal records the samples of a tracking session as they arrive.
type Journal interface {
	Open(market.Session) error
	Record(market.Sample, *market.Series) error
	Close() error
}

// SessionRecord is a stored tracking session with its sample count.
type SessionRecord struct {
	ID       string
	Symbol   string
	Started  time.Time
	Duration time.Duration
	Refresh  time.Duration
	Samples  int
}
