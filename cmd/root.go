package cmd

import (
	"github.com/spf13/cobra"

	"github.com/boydthomson/android-immich-clear/config"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "android-immich-clear",
	Short: "Reclaim phone storage by deleting media already synced to Immich",
	Long: `android-immich-clear scans an Android device's camera directory over adb
and deletes photos and videos that are older than an age threshold and
confirmed to exist in an Immich server's asset catalog (matched by filename).
Configuration is loaded from .env file or environment variables`,
	SilenceUsage: true,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(deviceInfoCmd)

	rootCmd.PersistentFlags().StringP("serial", "s", "", "Override device serial from config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func getSerial(cmd *cobra.Command) string {
	serial, _ := cmd.Flags().GetString("serial")
	if serial != "" {
		return serial
	}
	return cfg.DeviceSerial
}

func getScanPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("path")
	if path != "" {
		return path
	}
	return cfg.ScanPath
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}
