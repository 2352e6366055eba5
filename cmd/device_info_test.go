package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/boydthomson/android-immich-clear/config"
)

func TestDeviceInfoRequiresAdb(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	oldStdout := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w
	defer func() {
		w.Close()
		os.Stdout = oldStdout
	}()

	rootCmd.SetArgs([]string{"device-info"})
	err := Execute(&config.Config{ScanPath: config.DefaultScanPath})
	if err == nil {
		t.Fatal("device-info without adb expected error")
	}
	if !strings.Contains(err.Error(), "adb binary not found") {
		t.Errorf("device-info without adb error = %v, want adb binary not found", err)
	}
}

// Integration test for device-info against a real connected device.
// To run it, set ANDROID_IMMICH_INTEGRATION_TEST=true with a device attached.
func TestDeviceInfoIntegration(t *testing.T) {
	if os.Getenv("ANDROID_IMMICH_INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test; set ANDROID_IMMICH_INTEGRATION_TEST=true to run")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs([]string{"device-info"})
	err = Execute(cfg)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if err != nil {
		t.Fatalf("device-info failed: %v", err)
	}
	for _, field := range []string{"serial", "state", "scan_path", "media_file_count", "total_size_human"} {
		if !strings.Contains(output, field) {
			t.Errorf("device-info output missing %q: %s", field, output)
		}
	}
}
