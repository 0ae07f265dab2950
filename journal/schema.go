// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	started TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	refresh_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS samples (
	session_id TEXT NOT NULL REFERENCES sessions(session_id),
	seq INTEGER NOT NULL,
	time TEXT NOT NULL,
	price TEXT NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_samples_time ON samples(time);
`
