package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boydthomson/android-immich-clear/internal/adb"
	"github.com/boydthomson/android-immich-clear/pkg/utils"
)

var deviceInfoCmd = &cobra.Command{
	Use:   "device-info",
	Short: "Show device state and scan directory information",
	Long: `Show the connected device's serial, adb state, and the size and media file
count of the scan directory. Read-only; nothing on the device is changed.
The scan path comes from the configuration unless overridden with --path.`,
	Example: `  # Inspect the configured device and scan path
  android-immich-clear device-info

  # Inspect a different directory on a specific device
  android-immich-clear device-info --path /sdcard/DCIM/Screenshots --serial R58M123ABC`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeviceInfo(cmd)
	},
}

func runDeviceInfo(cmd *cobra.Command) error {
	if !adb.Available() {
		err := fmt.Errorf("adb binary not found in PATH")
		utils.PrintError(err, "device-info")
		return err
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Getting device information for scan path: %s\n", getScanPath(cmd))
	}

	device := adb.New(getSerial(cmd))
	info, err := device.Info(ctx, getScanPath(cmd))
	if err != nil {
		utils.PrintError(err, "device-info")
		return err
	}

	if err := utils.PrintJSON(info); err != nil {
		utils.PrintError(err, "device-info")
		return err
	}

	if isVerbose(cmd) {
		cmd.Printf("Device info retrieved successfully\n")
	}
	return nil
}

func init() {
	deviceInfoCmd.Flags().StringP("path", "p", "", "Directory on the device to inspect (default from config)")
	deviceInfoCmd.Flags().Int("timeout", 300, "Timeout in seconds for the operation")
}
