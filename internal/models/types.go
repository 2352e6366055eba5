package models

// FileRecord is one file discovered on the device, built from a single
// listing line. Immutable once constructed.
type FileRecord struct {
	Path       string
	Name       string
	ModifiedAt int64 // epoch seconds, fractional part truncated
}

// SyncStatus is the outcome of one catalog lookup by original filename.
type SyncStatus int

const (
	SyncStatusNotSynced SyncStatus = iota
	SyncStatusSynced
	SyncStatusQueryFailed
)

// RunStats holds the per-run counters. Every scanned record lands in exactly
// one terminal counter, so Scanned == Deleted + SkippedTooRecent +
// SkippedUnsynced + Errored.
type RunStats struct {
	Scanned          int   `json:"scanned"`
	Deleted          int   `json:"deleted"`
	SkippedTooRecent int   `json:"skipped_too_recent"`
	SkippedUnsynced  int   `json:"skipped_unsynced"`
	Errored          int   `json:"errored"`
	BytesFreed       int64 `json:"bytes_freed"`
}

type CleanResult struct {
	ScanPath string `json:"scan_path"`
	DaysOld  int    `json:"days_old"`
	DryRun   bool   `json:"dry_run"`
	RunStats
	BytesFreedHuman string `json:"bytes_freed_human"`
	CutoffDate      string `json:"cutoff_date"`
	OperationTime   string `json:"operation_time"`
}

type DeviceInfo struct {
	Serial         string `json:"serial"`
	State          string `json:"state"`
	ScanPath       string `json:"scan_path"`
	ScanPathExists bool   `json:"scan_path_exists"`
	MediaFileCount int    `json:"media_file_count"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
	TotalSizeHuman string `json:"total_size_human"`
	CheckedAt      string `json:"checked_at"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}
