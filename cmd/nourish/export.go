// ABOUTME: CLI commands for exporting, importing and migrating nourish data.
// ABOUTME: Supports JSON, YAML and Markdown export and copying between storage backends.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput  string
	exportSince   string
	migrateTo     string
	migrateDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export nourish data",
	Long: `Export nourish data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include data since this date (markdown only, YYYY-MM-DD)

EXAMPLES:

  nourish export json                        # Export all data as JSON
  nourish export json -o backup.json         # Save to file
  nourish export yaml                        # Export as YAML
  nourish export markdown --since 2025-01-01 # Meals and scores from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		case "markdown":
			var since time.Time
			if exportSince != "" {
				since, err = time.ParseInLocation(models.DateLayout, exportSince, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
			}
			var md string
			md, err = storage.ExportMarkdown(repo, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported to %s", exportOutput))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import nourish data from a backup",
	Long: `Import nourish data from a JSON or YAML backup file.

The format is chosen by file extension (.yaml/.yml for YAML, anything else
is read as JSON). Fitness days and lifestyle points are upserted by date.
Meals and activities that already exist (same ID) cause an error.

EXAMPLES:

  nourish import backup.json
  nourish import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			err = storage.ImportYAML(repo, data)
		default:
			err = storage.ImportJSON(repo, data)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported from %s", filename))
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy all data from the current storage backend to another one.

The current backend comes from config or NOURISH_BACKEND; --to names the
destination. Existing meals and activities in the destination with the same
ID cause an error.

USAGE:

  nourish migrate --to charm --dry-run   # Preview what would be copied
  NOURISH_BACKEND=charm nourish migrate --to sqlite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from := cfg.GetBackend()
		if migrateTo == from {
			return fmt.Errorf("destination backend %q is already in use", migrateTo)
		}

		data, err := repo.GetAllData()
		if err != nil {
			return fmt.Errorf("failed to read source data: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Migrating %s → %s\n", from, migrateTo)
		fmt.Fprintf(out, "  Meals: %d\n", len(data.Meals))
		fmt.Fprintf(out, "  Activities: %d\n", len(data.Activities))
		fmt.Fprintf(out, "  Fitness days: %d\n", len(data.FitnessDays))
		fmt.Fprintf(out, "  Lifestyle points: %d\n", len(data.LifestylePoints))

		if migrateDryRun {
			fmt.Fprintln(out, color.YellowString("Dry run - no changes made"))
			return nil
		}

		dest := *cfg
		dest.Backend = migrateTo
		dest.Env.Backend = ""
		target, err := dest.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = target.Close() }()

		if err := target.ImportData(data); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("✓ Migration complete"))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "sqlite", "destination backend (sqlite or charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrateCmd)
}
