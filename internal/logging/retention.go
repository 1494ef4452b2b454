package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxLogBytes is the size at which the active log file is rotated.
const maxLogBytes = 10 << 20

const rotatedTimeLayout = "20060102T150405"

// RotateIfLarge renames path to <base>-<timestamp><ext> when it has grown
// past maxBytes and returns the new name. It returns "" when nothing moved.
func RotateIfLarge(path string, maxBytes int64, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < maxBytes {
		return "", nil
	}
	ext := filepath.Ext(path)
	target := strings.TrimSuffix(path, ext) + "-" + now.UTC().Format(rotatedTimeLayout) + ext
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("rotate log file: %w", err)
	}
	return target, nil
}

// PruneRotated removes files rotated out of active older than retentionDays.
// The active file itself is never touched. retentionDays <= 0 disables
// pruning.
func PruneRotated(logger *slog.Logger, active string, retentionDays int, now time.Time) int {
	if retentionDays <= 0 {
		return 0
	}
	if logger == nil {
		logger = NewNop()
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	ext := filepath.Ext(active)
	pattern := strings.TrimSuffix(filepath.Base(active), ext) + "-*" + ext
	dir := filepath.Dir(active)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if matched, err := filepath.Match(pattern, name); err != nil || !matched {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		fullPath := filepath.Join(dir, name)
		if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove old log file",
				String("path", fullPath),
				Error(err),
				String(FieldEventType, "log_prune_failed"),
				String(FieldErrorHint, "check log directory permissions"),
				String(FieldImpact, "old logs will accumulate"),
			)
			continue
		}
		removed++
	}
	return removed
}
