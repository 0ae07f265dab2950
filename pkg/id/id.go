// Package id mints the session identifiers used by the tracker journal.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type source struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var src = newSource()

func newSource() *source {
	var seed int64
	if err := binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed); err != nil || seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &source{entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)}
}

// New returns a session id for the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a session id stamped with t. Ids minted in the same
// millisecond still sort in creation order.
func NewAt(t time.Time) string {
	src.mu.Lock()
	defer src.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), src.entropy).String()
}

// Time extracts the millisecond start time encoded in a session id.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
