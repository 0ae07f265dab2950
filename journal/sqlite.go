package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arzazrel/Project-LSMSDB-25/market"

	_ "github.com/mattn/go-sqlite3"
)

// dbTimeLayout is fixed width in UTC so stored times sort as text.
const dbTimeLayout = "2006-01-02T15:04:05.000000000Z"

func dbTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

func parseDBTime(s string) (time.Time, error) {
	return time.Parse(dbTimeLayout, s)
}

// SQLite stores tracking sessions and their samples.
type SQLite struct {
	db      *sql.DB
	session string
	seq     int
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Open(s market.Session) error {
	if s.ID == "" {
		return fmt.Errorf("journal: session id is required")
	}
	_, err := j.db.Exec(`
		INSERT INTO sessions (session_id, symbol, started, duration_ms, refresh_ms)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Symbol, dbTime(s.Started),
		s.Duration.Milliseconds(), s.Refresh.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	j.session = s.ID
	j.seq = 0
	return nil
}

func (j *SQLite) Record(s market.Sample, _ *market.Series) error {
	if j.session == "" {
		return fmt.Errorf("journal: record before open")
	}
	j.seq++
	_, err := j.db.Exec(`
		INSERT INTO samples (session_id, seq, time, price)
		VALUES (?, ?, ?, ?)`,
		j.session, j.seq, dbTime(s.Time), s.Price.String(),
	)
	return err
}

// ListSessions returns all sessions, newest first.
func (j *SQLite) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT s.session_id, s.symbol, s.started, s.duration_ms, s.refresh_ms, COUNT(p.seq)
		FROM sessions s
		LEFT JOIN samples p ON p.session_id = s.session_id
		GROUP BY s.session_id
		ORDER BY s.started DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec        SessionRecord
			started    string
			durMS, rMS int64
		)
		if err := rows.Scan(&rec.ID, &rec.Symbol, &started, &durMS, &rMS, &rec.Samples); err != nil {
			return nil, err
		}
		rec.Started, err = parseDBTime(started)
		if err != nil {
			return nil, fmt.Errorf("parse started %q: %w", started, err)
		}
		rec.Duration = time.Duration(durMS) * time.Millisecond
		rec.Refresh = time.Duration(rMS) * time.Millisecond
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Samples returns the samples of one session in recording order.
func (j *SQLite) Samples(ctx context.Context, sessionID string) ([]market.Sample, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, price FROM samples
		WHERE session_id = ?
		ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Sample
	for rows.Next() {
		var ts, price string
		if err := rows.Scan(&ts, &price); err != nil {
			return nil, err
		}
		t, err := parseDBTime(ts)
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", ts, err)
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", price, err)
		}
		out = append(out, market.Sample{Time: t, Price: p})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
