package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/boydthomson/android-immich-clear/internal/adb"
	"github.com/boydthomson/android-immich-clear/internal/cleaner"
	"github.com/boydthomson/android-immich-clear/internal/immich"
	"github.com/boydthomson/android-immich-clear/pkg/utils"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old device files that are already in the Immich catalog",
	Long: `Delete photos and videos on the device that are older than the specified
number of days and confirmed to exist in the Immich asset catalog.

The command will:
- Verify adb, the device, the scan path, and the Immich server up front
- List media files directly inside the scan path (no recursion)
- Keep every file younger than the cutoff
- Keep every file the catalog does not know by its filename
- Delete the rest, one file at a time, and report the space freed

WARNING: Deletion is irreversible. Files are only removed when the Immich
catalog reports a matching asset, but matching is by filename only.`,
	Example: `  # See what would be deleted, without touching the device
  android-immich-clear clean --days 30 --dry-run

  # Delete files older than 90 days
  android-immich-clear clean --days 90 --confirm

  # Scan a different directory on a specific device
  android-immich-clear clean --days 30 --path /sdcard/DCIM/Screenshots --serial R58M123ABC`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd)
	},
}

func runClean(cmd *cobra.Command) error {
	days, _ := cmd.Flags().GetInt("days")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	confirm, _ := cmd.Flags().GetBool("confirm")

	if days <= 0 {
		err := fmt.Errorf("days must be greater than 0")
		utils.PrintError(err, "clean")
		return err
	}

	if isVerbose(cmd) {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	scanPath := getScanPath(cmd)

	if !confirm && !dryRun {
		cutoffDate := time.Now().AddDate(0, 0, -days)
		fmt.Printf("WARNING: This will permanently delete synced files older than %d days (%s) under '%s'\n",
			days, cutoffDate.Format("2006-01-02"), scanPath)
		fmt.Print("Are you sure? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" && response != "y" && response != "YES" {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	device, catalog, err := preflight(ctx, cmd, scanPath)
	if err != nil {
		utils.PrintError(err, "clean")
		return err
	}

	if isVerbose(cmd) {
		cmd.Printf("Deleting synced files older than %d days under: %s\n", days, scanPath)
		if dryRun {
			cmd.Println("DRY RUN MODE: No files will actually be deleted")
		}
	}

	result, err := cleaner.Run(ctx, device, catalog, cleaner.Options{
		ScanPath: scanPath,
		DaysOld:  days,
		DryRun:   dryRun,
	})
	if err != nil {
		utils.PrintError(err, "clean")
		return err
	}

	if err := utils.PrintJSON(result); err != nil {
		utils.PrintError(err, "clean")
		return err
	}

	if isVerbose(cmd) {
		cmd.Println("Clean operation completed")
	}
	return nil
}

// preflight runs the fatal precondition checks in order: adb present, device
// connected, scan path present, catalog configured and reachable. Nothing on
// the device is touched until all of them pass.
func preflight(ctx context.Context, cmd *cobra.Command, scanPath string) (*adb.Client, *immich.Client, error) {
	if !adb.Available() {
		return nil, nil, fmt.Errorf("adb binary not found in PATH")
	}

	device := adb.New(getSerial(cmd))
	state, err := device.State(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("no device reachable: %w", err)
	}
	if state != "device" {
		return nil, nil, fmt.Errorf("device not ready, adb state is %q", state)
	}

	exists, err := device.PathExists(ctx, scanPath)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, fmt.Errorf("scan path %s does not exist on device", scanPath)
	}

	catalog, err := immich.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := catalog.Ping(ctx); err != nil {
		return nil, nil, err
	}

	return device, catalog, nil
}

func init() {
	cleanCmd.Flags().IntP("days", "d", 0, "Delete files older than this many days (required)")
	if err := cleanCmd.MarkFlagRequired("days"); err != nil {
		utils.PrintError(err, "clean")
	}

	cleanCmd.Flags().StringP("path", "p", "", "Directory on the device to scan (default from config)")
	cleanCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	cleanCmd.Flags().Bool("dry-run", false, "Show what would be deleted without actually deleting")
	cleanCmd.Flags().Int("timeout", 600, "Timeout in seconds for the whole operation")
}
