// Package adb drives a connected Android device through the adb binary.
package adb

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/executor"

	"github.com/boydthomson/android-immich-clear/internal/models"
	"github.com/boydthomson/android-immich-clear/pkg/utils"
)

// MediaExtensions is the fixed set of recognized photo/video extensions,
// matched case-insensitively by the device-side find.
var MediaExtensions = []string{"jpg", "jpeg", "png", "heic", "heif", "mp4", "mov", "webp", "gif"}

type Client struct {
	adb    *executor.WrappedExecutor
	serial string
}

func New(serial string) *Client {
	return &Client{
		adb:    executor.NewWrappedExecutor("adb"),
		serial: serial,
	}
}

// Available reports whether the adb binary can be found on PATH.
func Available() bool {
	_, err := exec.LookPath("adb")
	return err == nil
}

func (c *Client) args(rest ...string) []string {
	if c.serial == "" {
		return rest
	}
	return append([]string{"-s", c.serial}, rest...)
}

func (c *Client) run(ctx context.Context, rest ...string) (string, error) {
	result, err := c.adb.Execute(ctx, c.args(rest...))
	if err != nil {
		if result != nil && strings.TrimSpace(result.Stderr) != "" {
			return "", fmt.Errorf("%s: %w", strings.TrimSpace(result.Stderr), err)
		}
		return "", err
	}
	return result.Stdout, nil
}

// State returns the adb connection state, e.g. "device" or "offline".
func (c *Client) State(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "get-state")
	if err != nil {
		return "", fmt.Errorf("failed to query device state: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) Serial(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "get-serialno")
	if err != nil {
		return "", fmt.Errorf("failed to query device serial: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// PathExists checks for a directory on the device. Older adb versions do not
// propagate the device shell's exit status, so the check echoes a sentinel
// instead of relying on the exit code.
func (c *Client) PathExists(ctx context.Context, dir string) (bool, error) {
	cmd := fmt.Sprintf("if [ -d %s ]; then echo __exists__; fi", ShellQuote(dir))
	out, err := c.run(ctx, "shell", cmd)
	if err != nil {
		return false, fmt.Errorf("failed to check path %s: %w", dir, err)
	}
	return strings.Contains(out, "__exists__"), nil
}

// ListMediaFiles runs a single find over root and returns the raw output:
// one "<epoch.fraction> <absolute path>" line per regular media file directly
// inside root. Subdirectories are not descended into.
func (c *Client) ListMediaFiles(ctx context.Context, root string) (string, error) {
	out, err := c.run(ctx, "shell", findCommand(root))
	if err != nil {
		return "", fmt.Errorf("failed to list files under %s: %w", root, err)
	}
	return out, nil
}

func findCommand(root string) string {
	clauses := make([]string, 0, len(MediaExtensions))
	for _, ext := range MediaExtensions {
		clauses = append(clauses, fmt.Sprintf("-iname '*.%s'", ext))
	}
	return fmt.Sprintf(`find %s -maxdepth 1 -type f \( %s \) -printf '%%T@ %%p\n'`,
		ShellQuote(root), strings.Join(clauses, " -o "))
}

func (c *Client) FileSize(ctx context.Context, path string) (int64, error) {
	out, err := c.run(ctx, "shell", fmt.Sprintf("stat -c %%s %s", ShellQuote(path)))
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	size, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected stat output for %s: %w", path, err)
	}
	return size, nil
}

// RemoveFile deletes one file on the device. The sentinel echo covers adb
// versions that report exit status 0 regardless of the shell command result.
func (c *Client) RemoveFile(ctx context.Context, path string) error {
	cmd := fmt.Sprintf("rm %s && echo __removed__", ShellQuote(path))
	out, err := c.run(ctx, "shell", cmd)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	if !strings.Contains(out, "__removed__") {
		return fmt.Errorf("failed to remove %s", path)
	}
	return nil
}

// DirSize returns the recursive size of dir in bytes. du -sk is used because
// byte-granular du is not available on all Android builds.
func (c *Client) DirSize(ctx context.Context, dir string) (int64, error) {
	out, err := c.run(ctx, "shell", fmt.Sprintf("du -sk %s", ShellQuote(dir)))
	if err != nil {
		return 0, fmt.Errorf("failed to measure %s: %w", dir, err)
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0, fmt.Errorf("unexpected du output for %s", dir)
	}
	kb, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected du output for %s: %w", dir, err)
	}
	return kb * 1024, nil
}

// Info collects the diagnostic snapshot shown by the device-info command.
func (c *Client) Info(ctx context.Context, scanPath string) (*models.DeviceInfo, error) {
	state, err := c.State(ctx)
	if err != nil {
		return nil, err
	}

	serial, err := c.Serial(ctx)
	if err != nil {
		return nil, err
	}

	exists, err := c.PathExists(ctx, scanPath)
	if err != nil {
		return nil, err
	}

	info := &models.DeviceInfo{
		Serial:         serial,
		State:          state,
		ScanPath:       scanPath,
		ScanPathExists: exists,
		CheckedAt:      utils.FormatTime(time.Now()),
	}

	if exists {
		listing, err := c.ListMediaFiles(ctx, scanPath)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(listing, "\n") {
			if strings.TrimSpace(line) != "" {
				info.MediaFileCount++
			}
		}

		size, err := c.DirSize(ctx, scanPath)
		if err != nil {
			return nil, err
		}
		info.TotalSizeBytes = size
	}

	info.TotalSizeHuman = utils.FormatBytes(info.TotalSizeBytes)
	return info, nil
}

// ShellQuote wraps s in single quotes for the device shell, escaping any
// embedded single quotes.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
