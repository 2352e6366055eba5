// Package cleaner implements the delete-or-keep pipeline over one device
// directory listing.
package cleaner

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/boydthomson/android-immich-clear/internal/models"
	"github.com/boydthomson/android-immich-clear/pkg/utils"
)

const secondsPerDay = 86400

// Device is the subset of device operations the pipeline needs.
type Device interface {
	ListMediaFiles(ctx context.Context, root string) (string, error)
	FileSize(ctx context.Context, path string) (int64, error)
	RemoveFile(ctx context.Context, path string) error
}

// Catalog answers whether an asset with the given original filename is known
// to the remote catalog.
type Catalog interface {
	IsSynced(ctx context.Context, name string) (models.SyncStatus, error)
}

type Options struct {
	ScanPath string
	DaysOld  int
	DryRun   bool
	// Now is the reference clock for every age comparison in the run. Zero
	// means time.Now(), captured once before the first record.
	Now time.Time
}

// Run drives one pass over the scan path: list once, then resolve each record
// fully before reading the next. Per-record problems are logged and counted;
// only a failed listing fails the run, since partial stats would be
// misleading.
func Run(ctx context.Context, device Device, catalog Catalog, opts Options) (*models.CleanResult, error) {
	if opts.DaysOld <= 0 {
		return nil, fmt.Errorf("days must be greater than 0")
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	listing, err := device.ListMediaFiles(ctx, opts.ScanPath)
	if err != nil {
		return nil, fmt.Errorf("listing %s failed: %w", opts.ScanPath, err)
	}

	nowSeconds := now.Unix()
	threshold := int64(opts.DaysOld) * secondsPerDay

	var stats models.RunStats
	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Scanned++
		processRecord(ctx, device, catalog, line, nowSeconds, threshold, opts.DryRun, &stats)
	}

	return &models.CleanResult{
		ScanPath:        opts.ScanPath,
		DaysOld:         opts.DaysOld,
		DryRun:          opts.DryRun,
		RunStats:        stats,
		BytesFreedHuman: utils.FormatBytes(stats.BytesFreed),
		CutoffDate:      utils.FormatTime(now.Add(-time.Duration(threshold) * time.Second)),
		OperationTime:   utils.FormatTime(now),
	}, nil
}

// processRecord resolves one listing line to exactly one terminal outcome,
// incrementing exactly one of the four terminal counters.
func processRecord(ctx context.Context, device Device, catalog Catalog,
	line string, nowSeconds, threshold int64, dryRun bool, stats *models.RunStats) {
	record, err := parseRecord(line)
	if err != nil {
		slog.Warn("skipping unparsable listing line", "line", line, "error", err)
		stats.Errored++
		return
	}

	age := nowSeconds - record.ModifiedAt
	if age < threshold {
		slog.Debug("keeping recent file", "path", record.Path, "age_seconds", age)
		stats.SkippedTooRecent++
		return
	}

	status, err := catalog.IsSynced(ctx, record.Name)
	if status != models.SyncStatusSynced {
		if err != nil {
			slog.Warn("sync lookup failed, keeping file", "name", record.Name, "error", err)
		} else {
			slog.Debug("keeping unsynced file", "path", record.Path)
		}
		stats.SkippedUnsynced++
		return
	}

	size, err := device.FileSize(ctx, record.Path)
	if err != nil {
		// Best-effort size: an unknown size counts as zero bytes, not as a
		// record error.
		slog.Warn("size lookup failed, counting 0 bytes", "path", record.Path, "error", err)
		size = 0
	}

	if dryRun {
		slog.Info("would delete", "path", record.Path, "size_bytes", size)
		stats.Deleted++
		stats.BytesFreed += size
		return
	}

	if err := device.RemoveFile(ctx, record.Path); err != nil {
		slog.Warn("delete failed, file left in place", "path", record.Path, "error", err)
		stats.Errored++
		return
	}

	slog.Info("deleted", "path", record.Path, "size_bytes", size)
	stats.Deleted++
	stats.BytesFreed += size
}

// parseRecord splits one "<timestamp> <path>" listing line. Only the first
// field is the timestamp; everything after the first space is the path
// verbatim, since paths may themselves contain spaces. The timestamp is epoch
// seconds with an optional fractional part, which is truncated.
func parseRecord(line string) (models.FileRecord, error) {
	// adb shell output uses CRLF on many devices; the carriage return is a
	// line terminator, not part of the path.
	line = strings.TrimSuffix(line, "\r")

	timestamp, rest, found := strings.Cut(line, " ")
	if !found || rest == "" {
		return models.FileRecord{}, fmt.Errorf("malformed listing line %q", line)
	}

	whole, _, _ := strings.Cut(timestamp, ".")
	seconds, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || seconds < 0 {
		return models.FileRecord{}, fmt.Errorf("invalid timestamp %q", timestamp)
	}

	return models.FileRecord{
		Path:       rest,
		Name:       path.Base(rest),
		ModifiedAt: seconds,
	}, nil
}
