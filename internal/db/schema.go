package db

// schema creates the key/value table. One row per key; the story collection
// lives in a single row as a JSON array.
const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updatedAt REAL NOT NULL
	);
`
