package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/boydthomson/android-immich-clear/config"
)

// resetCleanFlags clears flag values and their changed markers, which the
// package-global command otherwise carries over between Execute calls.
func resetCleanFlags(t *testing.T) {
	t.Helper()
	cleanCmd.Flags().Visit(func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("failed to reset flag %s: %v", f.Name, err)
		}
		f.Changed = false
	})
}

func executeClean(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	resetCleanFlags(t)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs(append([]string{"clean"}, args...))
	err := Execute(cfg)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), err
}

func TestCleanDaysValidation(t *testing.T) {
	for _, days := range []string{"0", "-1"} {
		output, err := executeClean(t, &config.Config{ScanPath: config.DefaultScanPath},
			"--days", days, "--dry-run")
		if err == nil {
			t.Errorf("clean with days=%s expected error", days)
		}
		if !strings.Contains(output, "days must be greater than 0") {
			t.Errorf("clean with days=%s output missing validation message: %s", days, output)
		}
	}
}

func TestCleanMissingDaysFlagIsSurfaced(t *testing.T) {
	// Flag-level fatals never reach runClean, so cobra itself must print
	// them before the non-zero exit.
	var errBuf bytes.Buffer
	rootCmd.SetErr(&errBuf)
	defer rootCmd.SetErr(nil)

	resetCleanFlags(t)
	rootCmd.SetArgs([]string{"clean", "--dry-run"})
	err := Execute(&config.Config{ScanPath: config.DefaultScanPath})
	if err == nil {
		t.Fatal("clean without --days expected error")
	}
	if !strings.Contains(err.Error(), "days") {
		t.Errorf("clean without --days error = %v, want required flag message", err)
	}
	if !strings.Contains(errBuf.String(), "days") {
		t.Errorf("fatal flag error must be printed, got %q", errBuf.String())
	}
}

func TestCleanRequiresAdb(t *testing.T) {
	// An empty PATH guarantees the adb preflight check fails first.
	t.Setenv("PATH", t.TempDir())

	output, err := executeClean(t, &config.Config{
		ScanPath:     config.DefaultScanPath,
		ImmichURL:    "http://immich.local",
		ImmichAPIKey: "key",
	}, "--days", "1", "--dry-run")
	if err == nil {
		t.Fatal("clean without adb expected error")
	}
	if !strings.Contains(err.Error(), "adb binary not found") {
		t.Errorf("clean without adb error = %v, want adb binary not found", err)
	}
	if !strings.Contains(output, "adb binary not found") {
		t.Errorf("clean without adb must surface the error immediately: %s", output)
	}
}

// Integration test for the clean command against a real device and server.
// To run it, set ANDROID_IMMICH_INTEGRATION_TEST=true with a device attached
// and IMMICH_URL / IMMICH_API_KEY exported.
func TestCleanDryRunIntegration(t *testing.T) {
	if os.Getenv("ANDROID_IMMICH_INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test; set ANDROID_IMMICH_INTEGRATION_TEST=true to run")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	output, err := executeClean(t, cfg, "--days", "365", "--dry-run")
	if err != nil {
		t.Fatalf("clean --dry-run failed: %v", err)
	}

	for _, field := range []string{"scanned", "deleted", "skipped_too_recent", "skipped_unsynced", "errored", "bytes_freed_human"} {
		if !strings.Contains(output, field) {
			t.Errorf("clean summary missing %q: %s", field, output)
		}
	}
	if !strings.Contains(output, `"dry_run": true`) {
		t.Errorf("clean summary must report dry-run mode: %s", output)
	}
}
