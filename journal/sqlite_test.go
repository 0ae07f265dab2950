package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('sessions','samples')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["sessions"])
	assert.True(t, found["samples"])
}

func TestSQLiteRecordAndList(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	sess := market.Session{
		ID:       "01HZZZZZZZZZZZZZZZZZZZZZZZ",
		Symbol:   "AAPL",
		Started:  started,
		Duration: 3 * time.Second,
		Refresh:  time.Second,
	}
	require.NoError(t, j.Open(sess))

	for i := 0; i < 3; i++ {
		s := market.Sample{
			Time:  started.Add(time.Duration(i) * time.Second),
			Price: decimal.RequireFromString("190.25").Add(decimal.NewFromInt(int64(i))),
		}
		require.NoError(t, j.Record(s, nil))
	}

	ctx := context.Background()
	list, err := j.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sess.ID, list[0].ID)
	assert.Equal(t, "AAPL", list[0].Symbol)
	assert.True(t, started.Equal(list[0].Started))
	assert.Equal(t, 3*time.Second, list[0].Duration)
	assert.Equal(t, time.Second, list[0].Refresh)
	assert.Equal(t, 3, list[0].Samples)

	samples, err := j.Samples(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.True(t, samples[2].Price.Equal(decimal.RequireFromString("192.25")))
	assert.True(t, samples[1].Time.Equal(started.Add(time.Second)))
}

func TestSQLiteRecordBeforeOpen(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	err := j.Record(market.Sample{Time: time.Now(), Price: decimal.NewFromInt(1)}, nil)
	assert.Error(t, err)
}

func TestSQLiteOpenRequiresID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	assert.Error(t, j.Open(market.Session{Symbol: "AAPL"}))
}
