package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/games/wappo/levels"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.wappo/test.db")
	if err != nil {
		t.Fatalf("Open(~) failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".wappo", "test.db")); err != nil {
		t.Errorf("Database file was not created under HOME: %v", err)
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SaveOrUpdate(levels.Default()); err != nil {
		t.Fatalf("SaveOrUpdate() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	maps, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(maps) != 1 || maps[0].Name != levels.DefaultName {
		t.Errorf("LoadAll() after reopen = %v, expected the saved default map", maps)
	}
}

func TestStoreMaps(t *testing.T) {
	store := openTestStore(t)

	maps, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(maps) != 0 {
		t.Errorf("LoadAll() on empty store = %d maps, expected 0", len(maps))
	}

	campaign := levels.Campaign()
	second := campaign[1]
	second.Name = "Zeta"
	first := campaign[0]
	first.Name = "Alpha"

	for _, l := range []wappo.Level{second, first} {
		if err := store.SaveOrUpdate(l); err != nil {
			t.Fatalf("SaveOrUpdate(%q) failed: %v", l.Name, err)
		}
	}

	maps, err = store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(maps) != 2 {
		t.Fatalf("LoadAll() = %d maps, expected 2", len(maps))
	}
	if maps[0].Name != "Alpha" || maps[1].Name != "Zeta" {
		t.Errorf("LoadAll() order = %q, %q, expected Alpha, Zeta", maps[0].Name, maps[1].Name)
	}
	if !reflect.DeepEqual(maps[0], first.Normalized()) {
		t.Errorf("LoadAll()[0] = %+v, expected %+v", maps[0], first.Normalized())
	}

	ok, err := store.MapExists("Alpha")
	if err != nil || !ok {
		t.Errorf("MapExists(Alpha) = %v, %v, expected true", ok, err)
	}
	ok, err = store.MapExists("Beta")
	if err != nil || ok {
		t.Errorf("MapExists(Beta) = %v, %v, expected false", ok, err)
	}
}

func TestStoreSaveOrUpdateReplaces(t *testing.T) {
	store := openTestStore(t)

	l := levels.Default()
	l.Name = "Mine"
	if err := store.SaveOrUpdate(l); err != nil {
		t.Fatalf("SaveOrUpdate() failed: %v", err)
	}

	l.Traps = []core.Pos{{Row: 2, Col: 2}}
	if err := store.SaveOrUpdate(l); err != nil {
		t.Fatalf("second SaveOrUpdate() failed: %v", err)
	}

	maps, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(maps) != 1 {
		t.Fatalf("LoadAll() = %d maps, expected 1", len(maps))
	}
	if !reflect.DeepEqual(maps[0].Traps, l.Traps) {
		t.Errorf("Traps = %v, expected %v", maps[0].Traps, l.Traps)
	}
}

func TestStoreSaveBlankName(t *testing.T) {
	store := openTestStore(t)

	l := levels.Default()
	l.Name = "   "
	if err := store.SaveOrUpdate(l); err != nil {
		t.Fatalf("SaveOrUpdate() failed: %v", err)
	}

	maps, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(maps) != 1 || maps[0].Name != wappo.DefaultLevelName {
		t.Errorf("LoadAll() = %v, expected one map named %q", maps, wappo.DefaultLevelName)
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	for _, name := range []string{"a", "b"} {
		l := levels.Default()
		l.Name = name
		if err := store.SaveOrUpdate(l); err != nil {
			t.Fatalf("SaveOrUpdate(%q) failed: %v", name, err)
		}
	}

	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete(a) failed: %v", err)
	}
	if err := store.Delete("a"); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("Delete(a) twice error = %v, expected ErrMapNotFound", err)
	}

	maps, _ := store.LoadAll()
	if len(maps) != 1 || maps[0].Name != "b" {
		t.Errorf("LoadAll() after Delete = %v, expected only b", maps)
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll() failed: %v", err)
	}
	maps, _ = store.LoadAll()
	if len(maps) != 0 {
		t.Errorf("LoadAll() after ClearAll = %d maps, expected 0", len(maps))
	}
}

func TestStoreLastActiveName(t *testing.T) {
	store := openTestStore(t)

	name, err := store.LoadLastActiveName()
	if err != nil {
		t.Fatalf("LoadLastActiveName() failed: %v", err)
	}
	if name != "" {
		t.Errorf("LoadLastActiveName() = %q, expected empty", name)
	}

	for _, want := range []string{"Level 3", "Mine"} {
		if err := store.SaveLastActiveName(want); err != nil {
			t.Fatalf("SaveLastActiveName(%q) failed: %v", want, err)
		}
		got, err := store.LoadLastActiveName()
		if err != nil {
			t.Fatalf("LoadLastActiveName() failed: %v", err)
		}
		if got != want {
			t.Errorf("LoadLastActiveName() = %q, expected %q", got, want)
		}
	}
}

func TestStoreUnlockedLevels(t *testing.T) {
	store := openTestStore(t)

	n, err := store.UnlockedLevels()
	if err != nil {
		t.Fatalf("UnlockedLevels() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("UnlockedLevels() = %d, expected 1", n)
	}

	tests := []struct {
		set, expected int
	}{
		{5, 5},
		{2, 2},
		{0, 1},
	}
	for _, tt := range tests {
		if err := store.SetUnlockedLevels(tt.set); err != nil {
			t.Fatalf("SetUnlockedLevels(%d) failed: %v", tt.set, err)
		}
		n, err := store.UnlockedLevels()
		if err != nil {
			t.Fatalf("UnlockedLevels() failed: %v", err)
		}
		if n != tt.expected {
			t.Errorf("UnlockedLevels() after Set(%d) = %d, expected %d", tt.set, n, tt.expected)
		}
	}
}

func TestStoreResults(t *testing.T) {
	store := openTestStore(t)

	records := []struct {
		level  string
		result wappo.Result
		moves  int
	}{
		{"Level 1", wappo.ResultPlayerWon, 12},
		{"Level 1", wappo.ResultPlayerLost, 3},
		{"Level 1", wappo.ResultPlayerWon, 8},
		{"Level 1", wappo.ResultPlayerWon, 15},
		{"Level 2", wappo.ResultPlayerWon, 4},
	}
	for _, r := range records {
		if err := store.RecordResult(r.level, r.result, r.moves); err != nil {
			t.Fatalf("RecordResult() failed: %v", err)
		}
	}

	if err := store.RecordResult("Level 1", wappo.ResultOngoing, 1); err == nil {
		t.Error("RecordResult(ongoing) should fail")
	}

	best, err := store.BestResults("Level 1", 2)
	if err != nil {
		t.Fatalf("BestResults() failed: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("BestResults() = %d entries, expected 2", len(best))
	}
	if best[0].Moves != 8 || best[1].Moves != 12 {
		t.Errorf("BestResults() moves = %d, %d, expected 8, 12", best[0].Moves, best[1].Moves)
	}
	for _, e := range best {
		if e.Result != wappo.ResultPlayerWon || e.Level != "Level 1" {
			t.Errorf("BestResults() entry = %+v, expected a Level 1 win", e)
		}
		if e.CreatedAt.IsZero() {
			t.Error("BestResults() entry has no timestamp")
		}
	}

	recent, err := store.RecentResults(0)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != len(records) {
		t.Fatalf("RecentResults() = %d entries, expected %d", len(recent), len(records))
	}
	if recent[0].Level != "Level 2" {
		t.Errorf("RecentResults()[0].Level = %q, expected Level 2", recent[0].Level)
	}
	if recent[3].Result != wappo.ResultPlayerLost {
		t.Errorf("RecentResults()[3].Result = %v, expected lost", recent[3].Result)
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	_ = store.RecordResult("Level 1", wappo.ResultPlayerLost, 2)
	_ = store.RecordResult("Level 1", wappo.ResultPlayerWon, 9)
	_ = store.RecordResult("Level 1", wappo.ResultPlayerWon, 7)
	_ = store.RecordResult("Level 2", wappo.ResultPlayerLost, 5)

	stats, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}

	tests := []struct {
		level     string
		games     int
		wins      int
		bestMoves int
	}{
		{"Level 1", 3, 2, 7},
		{"Level 2", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			s, ok := stats[tt.level]
			if !ok {
				t.Fatalf("no stats for %s", tt.level)
			}
			if s.Games != tt.games || s.Wins != tt.wins || s.BestMoves != tt.bestMoves {
				t.Errorf("stats = %+v, expected games=%d wins=%d best=%d", *s, tt.games, tt.wins, tt.bestMoves)
			}
		})
	}

	if err := store.ClearResults("Level 1"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}
	stats, _ = store.AllLevelStats()
	if _, ok := stats["Level 1"]; ok {
		t.Error("Level 1 stats remain after ClearResults")
	}
	if err := store.ClearResults(""); err != nil {
		t.Fatalf("ClearResults(all) failed: %v", err)
	}
	stats, _ = store.AllLevelStats()
	if len(stats) != 0 {
		t.Errorf("AllLevelStats() after clearing = %d levels, expected 0", len(stats))
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		d        dialect
		query    string
		expected string
	}{
		{sqliteDialect, "a = ? AND b = ?", "a = ? AND b = ?"},
		{postgresDialect, "a = ? AND b = ?", "a = $1 AND b = $2"},
		{postgresDialect, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		if got := tt.d.rebind(tt.query); got != tt.expected {
			t.Errorf("rebind(%q) = %q, expected %q", tt.query, got, tt.expected)
		}
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dsn      string
		expected dialect
	}{
		{"~/.wappo/wappo.db", sqliteDialect},
		{"/tmp/x.db", sqliteDialect},
		{"postgres://u:p@localhost/wappo?sslmode=disable", postgresDialect},
		{"postgresql://localhost/wappo", postgresDialect},
	}
	for _, tt := range tests {
		if got := dialectFor(tt.dsn); got != tt.expected {
			t.Errorf("dialectFor(%q) = %v, expected %v", tt.dsn, got, tt.expected)
		}
	}
}
