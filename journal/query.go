package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

// SamplesBetween returns every sample recorded for symbol with a timestamp in
// [start, end), across sessions, in time order.
func (j *SQLite) SamplesBetween(ctx context.Context, symbol string, start, end time.Time) ([]market.Sample, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT p.time, p.price
		FROM samples p
		JOIN sessions s ON s.session_id = p.session_id
		WHERE s.symbol = ? AND p.time >= ? AND p.time < ?
		ORDER BY p.time ASC`, symbol, dbTime(start), dbTime(end))
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
