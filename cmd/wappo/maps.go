package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/games/wappo/levels"
	"github.com/vovakirdan/wappo/internal/registry"
	"github.com/vovakirdan/wappo/internal/storage"
)

var (
	flagImportForce bool
	flagExportOut   string
	flagClearYes    bool
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Manage saved maps",
	Long: `List, import, export and delete the custom maps kept in the database.

Maps are plain YAML files:

  name: Corridor
  size: {rows: 3, cols: 5}
  player: {row: 1, col: 0}
  exit: {row: 1, col: 4}
  enemies: [{row: 0, col: 4}]
  traps: [{row: 1, col: 2}]
  walls:
    - {a: {row: 0, col: 1}, b: {row: 1, col: 1}}`,
}

var mapsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved maps",
	Args:  cobra.NoArgs,
	RunE:  runMapsList,
}

var mapsImportCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import map files or directories",
	Long: `Import YAML maps into the database. Directories are scanned
recursively; invalid files are skipped with a warning.

A map whose name is already saved is left alone unless --force is given.
Names of built-in levels are refused.

Examples:
  wappo maps import ./corridor.yaml
  wappo maps import --force ./my-levels`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMapsImport,
}

var mapsExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write a level or saved map as YAML",
	Long: `Write a saved map, or a built-in level, as YAML to stdout or a file.

Examples:
  wappo maps export Corridor
  wappo maps export "Level 3" -o level3.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runMapsExport,
}

var mapsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved map",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapsDelete,
}

var mapsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved map",
	Args:  cobra.NoArgs,
	RunE:  runMapsClear,
}

func init() {
	mapsImportCmd.Flags().BoolVar(&flagImportForce, "force", false, "Replace maps that already exist")
	mapsExportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Output file (default: stdout)")
	mapsClearCmd.Flags().BoolVar(&flagClearYes, "yes", false, "Do not ask for confirmation")

	mapsCmd.AddCommand(mapsListCmd)
	mapsCmd.AddCommand(mapsImportCmd)
	mapsCmd.AddCommand(mapsExportCmd)
	mapsCmd.AddCommand(mapsDeleteCmd)
	mapsCmd.AddCommand(mapsClearCmd)
}

func runMapsList(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(appConfig.Storage.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	maps, err := store.LoadAll()
	if err != nil {
		return err
	}
	if len(maps) == 0 {
		fmt.Println("No saved maps.")
		return nil
	}

	maxNameLen := 4
	for _, l := range maps {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Printf("  %-*s  %5s  %7s  %5s  %5s\n", maxNameLen, "Name", "Size", "Enemies", "Traps", "Walls")
	fmt.Printf("  %-*s  %5s  %7s  %5s  %5s\n", maxNameLen, "----", "----", "-------", "-----", "-----")
	for _, l := range maps {
		fmt.Printf("  %-*s  %5s  %7d  %5d  %5d\n",
			maxNameLen, l.Name, fmt.Sprintf("%dx%d", l.Rows, l.Cols),
			len(l.Enemies), len(l.Traps), len(l.Walls))
	}
	return nil
}

func runMapsImport(_ *cobra.Command, args []string) error {
	store, err := storage.Open(appConfig.Storage.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	var files []levels.File
	for _, arg := range args {
		path := expandPath(arg)
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		loader := levels.NewLoader(path, logger)
		if info.IsDir() {
			found, err := loader.LoadAll()
			if err != nil {
				return err
			}
			files = append(files, found...)
			continue
		}
		f, err := loader.LoadFile(path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	imported := 0
	for _, f := range files {
		name := f.Level.Name
		if registry.Exists(name) {
			fmt.Printf("  skip  %-20s %s (built-in level name)\n", name, f.Path)
			continue
		}
		if !flagImportForce {
			exists, err := store.MapExists(name)
			if err != nil {
				return err
			}
			if exists {
				fmt.Printf("  skip  %-20s %s (already saved, use --force)\n", name, f.Path)
				continue
			}
		}
		if err := store.SaveOrUpdate(f.Level); err != nil {
			return err
		}
		fmt.Printf("  saved %-20s %s\n", name, f.Path)
		imported++
	}

	fmt.Printf("\nImported %d of %d maps.\n", imported, len(files))
	return nil
}

func runMapsExport(_ *cobra.Command, args []string) error {
	l, err := findLevel(args[0])
	if err != nil {
		return err
	}
	data, err := levels.Encode(l)
	if err != nil {
		return err
	}

	if flagExportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(expandPath(flagExportOut), data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %q to %s\n", l.Name, flagExportOut)
	return nil
}

func runMapsDelete(_ *cobra.Command, args []string) error {
	store, err := storage.Open(appConfig.Storage.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %q\n", args[0])
	return nil
}

func runMapsClear(_ *cobra.Command, _ []string) error {
	if !flagClearYes {
		fmt.Print("Delete every saved map? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	store, err := storage.Open(appConfig.Storage.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearAll(); err != nil {
		return err
	}
	fmt.Println("All saved maps deleted.")
	return nil
}

// findLevel looks name up in the catalog, then among the saved maps.
func findLevel(name string) (wappo.Level, error) {
	l, err := registry.Get(name)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, registry.ErrUnknownLevel) {
		return wappo.Level{}, err
	}

	store, openErr := storage.Open(appConfig.Storage.DSN)
	if openErr != nil {
		return wappo.Level{}, err
	}
	defer store.Close()

	maps, loadErr := store.LoadAll()
	if loadErr != nil {
		return wappo.Level{}, loadErr
	}
	for _, m := range maps {
		if m.Name == name {
			return m, nil
		}
	}
	return wappo.Level{}, err
}
