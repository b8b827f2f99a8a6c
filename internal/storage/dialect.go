package storage

import (
	"strconv"
	"strings"
)

type dialect int

const (
	sqliteDialect dialect = iota
	postgresDialect
)

func dialectFor(dsn string) dialect {
	if IsPostgres(dsn) {
		return postgresDialect
	}
	return sqliteDialect
}

func (d dialect) driver() string {
	if d == postgresDialect {
		return "postgres"
	}
	return "sqlite"
}

func (d dialect) schema() string {
	if d == postgresDialect {
		return postgresSchema
	}
	return sqliteSchema
}

// rebind rewrites ? placeholders into PostgreSQL's $n form.
// Queries never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if d != postgresDialect {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		definition TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level TEXT NOT NULL,
		result TEXT NOT NULL,
		moves INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_results_level ON results(level);
	CREATE INDEX IF NOT EXISTS idx_results_best ON results(level, result, moves);
`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		definition TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS results (
		id SERIAL PRIMARY KEY,
		level TEXT NOT NULL,
		result TEXT NOT NULL,
		moves INTEGER NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_results_level ON results(level);
	CREATE INDEX IF NOT EXISTS idx_results_best ON results(level, result, moves);
`
