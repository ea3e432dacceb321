// ABOUTME: CLI commands for Charm-based sync when the charm backend is selected.
// ABOUTME: Supports link, unlink, status, repair, reset, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/charm"
	"github.com/spf13/cobra"
)

// skipStorage marks commands that must run without an open repository.
const skipStorage = "skip-storage"

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync nourish data across devices",
	Long: `Sync nourish data across devices using Charm Cloud.

Sync applies when the charm backend is selected (NOURISH_BACKEND=charm or
"backend": "charm" in config). Data is E2E encrypted with your SSH key
before upload.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     nourish sync link

  2. Switch to the charm backend, optionally copying local data:
     nourish migrate --to charm

  3. Check sync status:
     NOURISH_BACKEND=charm nourish sync status

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show backend, account info and record counts
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each write.`,
}

var syncLinkCmd = &cobra.Command{
	Use:         "link",
	Short:       "Link this device to Charm",
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("\n✓ Device linked to Charm"))
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:         "unlink",
	Short:       "Disconnect from Charm",
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Device unlinked from Charm"))
		fmt.Fprintln(cmd.OutOrStdout(), "Your local data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Backend: %s\n", cfg.GetBackend())

		if client, ok := repo.(*charm.Client); ok {
			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(out, color.YellowString("Not linked to Charm"))
				fmt.Fprintln(out, "\nRun 'nourish sync link' to connect to Charm.")
			} else {
				fmt.Fprintln(out, "Charm ID:", id)
				if client.IsReadOnly() {
					fmt.Fprintln(out, color.YellowString("Read-only: another process holds the lock"))
				} else if err := client.Sync(); err != nil {
					fmt.Fprintln(out, color.YellowString("⚠ Sync failed: %v", err))
				} else {
					fmt.Fprintln(out, color.GreenString("✓ Synced"))
				}
			}
		} else {
			fmt.Fprintln(out, faint.Sprint("Sync is only available with the charm backend."))
		}

		meals, _ := repo.ListMeals(time.Time{}, time.Time{}, 0)
		activities, _ := repo.ListActivities(time.Time{}, time.Time{}, 0)
		points, _ := repo.ListLifestylePoints(0)
		fmt.Fprintf(out, "  Meals: %d\n", len(meals))
		fmt.Fprintf(out, "  Activities: %d\n", len(activities))
		fmt.Fprintf(out, "  Lifestyle points: %d\n", len(points))
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:         "wipe",
	Short:       "Delete all cloud and local data",
	Annotations: map[string]string{skipStorage: "true"},
	Long: `Delete all cloud backups and local charm data.

This is a DESTRUCTIVE operation. ALL charm-backed data will be permanently deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "This will PERMANENTLY DELETE all cloud backups and local nourish data.\nType 'wipe' to confirm: ", "wipe") {
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Data wiped successfully"))
		fmt.Fprintf(out, "  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Fprintf(out, "  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:         "repair",
	Short:       "Repair database corruption",
	Annotations: map[string]string{skipStorage: "true"},
	Long: `Repair charm database corruption by checkpointing WAL, removing SHM files,
checking integrity, and vacuuming.

Run with --force to attempt recovery even if integrity checks fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Repairing nourish database...")
		result, err := kv.Repair(charm.DBName, force)

		if result.WalCheckpointed {
			fmt.Fprintln(out, color.GreenString("  ✓ WAL checkpointed"))
		}
		if result.ShmRemoved {
			fmt.Fprintln(out, color.GreenString("  ✓ SHM file removed"))
		}
		if result.IntegrityOK {
			fmt.Fprintln(out, color.GreenString("  ✓ Integrity check passed"))
		} else {
			fmt.Fprintln(out, color.RedString("  ✗ Integrity check failed"))
		}
		if result.Vacuumed {
			fmt.Fprintln(out, color.GreenString("  ✓ Database vacuumed"))
		}

		if err != nil {
			if !force {
				fmt.Fprintln(out, color.YellowString("\nRun with --force to attempt recovery."))
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("\n✓ Repair complete"))
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Reset local data and restore from cloud",
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "This will DELETE all local charm data and restore from cloud.\nType 'y' to continue: ", "y") {
			return nil
		}
		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Local data reset and restored from cloud"))
		return nil
	},
}

func runCharm(arg string) error {
	c := exec.Command("charm", arg)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func confirm(cmd *cobra.Command, prompt, want string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	var answer string
	_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
	if answer != want {
		fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
		return false
	}
	return true
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
