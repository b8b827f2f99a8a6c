package levels

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/registry"
)

// File is a level read from disk.
type File struct {
	Level wappo.Level
	Path  string
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root   string
	Logger *log.Logger
}

// NewLoader creates a new level loader. A nil logger discards output.
func NewLoader(root string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{Root: root, Logger: logger}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are logged and skipped. Levels come back sorted by path so
// the order is stable across runs.
func (l *Loader) LoadAll() ([]File, error) {
	var files []File

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(FormatExtensions(), strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		f, err := l.LoadFile(path)
		if err != nil {
			l.Logger.Warn("skipping level file", "path", path, "err", err)
			return nil
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking directory %s: %w", l.Root, err)
	}

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("levels: reading file %s: %w", path, err)
	}

	lvl, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return File{Level: lvl, Path: path}, nil
}

// RegisterDir loads every level under root and appends the ones whose
// names are free to the registry, after the campaign. It returns how many
// were registered.
func (l *Loader) RegisterDir() (int, error) {
	files, err := l.LoadAll()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, f := range files {
		if registry.Exists(f.Level.Name) {
			l.Logger.Warn("level name already taken", "name", f.Level.Name, "path", f.Path)
			continue
		}
		registry.Register(f.Level)
		n++
	}
	return n, nil
}
