// Package storage persists custom maps, campaign progress and game results.
// A plain path opens SQLite through the pure-Go modernc.org/sqlite driver; a
// postgres:// URL opens PostgreSQL through lib/pq.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/games/wappo/levels"
	"github.com/vovakirdan/wappo/internal/session"
)

// ErrMapNotFound is returned by Delete for a name that has no saved map.
var ErrMapNotFound = errors.New("map not found")

// Settings keys.
const (
	keyLastActiveMap    = "last_active_map"
	keyCampaignUnlocked = "campaign_unlocked"
)

// Store manages the database connection for maps, settings and results.
type Store struct {
	db      *sql.DB
	dialect dialect
}

var (
	_ session.MapStore      = (*Store)(nil)
	_ session.ProgressStore = (*Store)(nil)
)

// ResultEntry is one finished game.
type ResultEntry struct {
	ID        int64
	Level     string
	Result    wappo.Result
	Moves     int
	CreatedAt time.Time
}

// LevelStats aggregates the results of one level.
type LevelStats struct {
	Level      string
	Games      int
	Wins       int
	BestMoves  int // Fewest moves in a win, 0 without wins
	LastPlayed time.Time
}

// Open connects to the database named by dsn and runs migrations.
// For SQLite a leading ~ is expanded and parent directories are created.
func Open(dsn string) (*Store, error) {
	d := dialectFor(dsn)

	if d == sqliteDialect {
		path, err := expandHome(dsn)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
		dsn = path
	}

	db, err := sql.Open(d.driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: d}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(s.dialect.schema())
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.db.Exec(s.dialect.rebind(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(s.dialect.rebind(query), args...)
}

// LoadAll returns every saved map ordered by name.
func (s *Store) LoadAll() ([]wappo.Level, error) {
	rows, err := s.query(`SELECT name, definition FROM maps ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query maps: %w", err)
	}
	defer rows.Close()

	var maps []wappo.Level
	for rows.Next() {
		var name, def string
		if err := rows.Scan(&name, &def); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		l, err := levels.Parse([]byte(def))
		if err != nil {
			return nil, fmt.Errorf("storage: cannot decode map %q: %w", name, err)
		}
		l.Name = name
		maps = append(maps, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return maps, nil
}

// SaveOrUpdate stores the map under its name, replacing any map with the
// same name. A blank name is saved as wappo.DefaultLevelName.
func (s *Store) SaveOrUpdate(l wappo.Level) error {
	l = l.Normalized()
	def, err := levels.Encode(l)
	if err != nil {
		return fmt.Errorf("storage: cannot encode map %q: %w", l.Name, err)
	}

	_, err = s.exec(
		`INSERT INTO maps (name, definition) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET
		   definition = excluded.definition,
		   updated_at = CURRENT_TIMESTAMP`,
		l.Name, string(def),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save map: %w", err)
	}
	return nil
}

// MapExists reports whether a map with this name is saved.
func (s *Store) MapExists(name string) (bool, error) {
	var n int
	if err := s.queryRow(`SELECT COUNT(*) FROM maps WHERE name = ?`, name).Scan(&n); err != nil {
		return false, fmt.Errorf("storage: cannot query map: %w", err)
	}
	return n > 0, nil
}

// Delete removes one map.
func (s *Store) Delete(name string) error {
	res, err := s.exec(`DELETE FROM maps WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete map: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete map: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage: %w: %q", ErrMapNotFound, name)
	}
	return nil
}

// ClearAll removes every saved map.
func (s *Store) ClearAll() error {
	if _, err := s.exec(`DELETE FROM maps`); err != nil {
		return fmt.Errorf("storage: cannot clear maps: %w", err)
	}
	return nil
}

func (s *Store) setting(key string) (string, bool, error) {
	var value string
	err := s.queryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) setSetting(key, value string) error {
	_, err := s.exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write setting %s: %w", key, err)
	}
	return nil
}

// LoadLastActiveName returns the name of the level that was active last, or
// "" if none was recorded.
func (s *Store) LoadLastActiveName() (string, error) {
	name, _, err := s.setting(keyLastActiveMap)
	return name, err
}

// SaveLastActiveName records the active level name.
func (s *Store) SaveLastActiveName(name string) error {
	return s.setSetting(keyLastActiveMap, name)
}

// UnlockedLevels returns how many campaign levels are playable. It is at
// least 1.
func (s *Store) UnlockedLevels() (int, error) {
	value, ok, err := s.setting(keyCampaignUnlocked)
	if err != nil || !ok {
		return 1, err
	}
	var n int
	if _, err := fmt.Sscan(value, &n); err != nil {
		return 1, fmt.Errorf("storage: bad %s value %q: %w", keyCampaignUnlocked, value, err)
	}
	return max(n, 1), nil
}

// SetUnlockedLevels records campaign progress.
func (s *Store) SetUnlockedLevels(n int) error {
	return s.setSetting(keyCampaignUnlocked, fmt.Sprint(max(n, 1)))
}

// RecordResult stores a finished game. Ongoing results are rejected.
func (s *Store) RecordResult(level string, result wappo.Result, moves int) error {
	if result == wappo.ResultOngoing {
		return errors.New("storage: cannot record an ongoing game")
	}
	_, err := s.exec(
		`INSERT INTO results (level, result, moves) VALUES (?, ?, ?)`,
		level, result.String(), moves,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save result: %w", err)
	}
	return nil
}

// BestResults returns the wins on level with the fewest moves, oldest first
// among equals.
func (s *Store) BestResults(level string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.query(
		`SELECT id, level, result, moves, created_at
		 FROM results
		 WHERE level = ? AND result = ?
		 ORDER BY moves ASC, id ASC
		 LIMIT ?`,
		level, wappo.ResultPlayerWon.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// RecentResults returns the latest finished games across all levels.
func (s *Store) RecentResults(limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.query(
		`SELECT id, level, result, moves, created_at
		 FROM results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]ResultEntry, error) {
	defer rows.Close()

	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var result string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Level, &result, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r, err := wappo.ParseResult(result)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		e.Result = r
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearResults deletes the results of one level, or of all levels when level
// is empty.
func (s *Store) ClearResults(level string) error {
	var err error
	if level == "" {
		_, err = s.exec(`DELETE FROM results`)
	} else {
		_, err = s.exec(`DELETE FROM results WHERE level = ?`, level)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// AllLevelStats aggregates results for every level that has been played.
func (s *Store) AllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.query(
		`SELECT level,
		        COUNT(*),
		        COALESCE(SUM(CASE WHEN result = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN result = ? THEN moves END), 0),
		        MAX(created_at)
		 FROM results
		 GROUP BY level`,
		wappo.ResultPlayerWon.String(), wappo.ResultPlayerWon.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastPlayed any
		if err := rows.Scan(&ls.Level, &ls.Games, &ls.Wins, &ls.BestMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastPlayed = parseTime(lastPlayed)
		stats[ls.Level] = &ls
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and the SQLite text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse(time.DateTime, string(t)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// IsPostgres reports whether dsn selects the PostgreSQL backend.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
