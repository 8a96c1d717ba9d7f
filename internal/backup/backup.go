// Package backup keeps rotating JSON snapshots of the working set in the
// config directory. Snapshots use the export format, so they work the same
// for every storage backend and restore through an overwrite import.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/logger"
	"github.com/julianstephens/yearlit/internal/merge"
	"github.com/julianstephens/yearlit/internal/transfer"
	"github.com/julianstephens/yearlit/internal/workspace"
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// Info describes one backup file
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations
type Manager struct {
	backupDir string
	clock     dates.Clock
}

// NewManager creates a manager storing backups under configDir/backups
func NewManager(configDir string, clock dates.Clock) *Manager {
	if clock == nil {
		clock = dates.SystemClock{}
	}
	return &Manager{
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		clock:     clock,
	}
}

// Dir returns the backup directory path
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a snapshot of w and rotates old backups
func (m *Manager) Create(w *workspace.Workspace) (string, error) {
	return m.create(w, true)
}

func (m *Manager) create(w *workspace.Workspace, rotate bool) (string, error) {
	data, err := w.Export()
	if err != nil {
		return "", fmt.Errorf("failed to snapshot workspace: %w", err)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	// Never overwrite an existing backup
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if rotate {
		if err := m.rotate(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

// nextPath picks a free file name, adding seconds and then a counter when
// the minute-precision name is taken.
func (m *Manager) nextPath() (string, error) {
	now := m.clock.Now()
	path := m.pathFor(now.Format(minuteLayout))
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format(secondLayout)
	path = m.pathFor(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = m.pathFor(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// List returns every backup, newest first
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp from a backup file name. A trailing
// collision counter is ignored.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	if parts := strings.Split(stamp, "-"); len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.Parse(layout, stamp); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Resolve finds a backup by path, falling back to a file name inside the
// backup directory.
func (m *Manager) Resolve(ref string) (string, error) {
	if exists(ref) {
		return filepath.Abs(ref)
	}
	if !filepath.IsAbs(ref) {
		candidate := filepath.Join(m.backupDir, ref)
		if exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("backup file not found: tried %s and %s", ref, m.backupDir)
}

// Restore replaces the working set with the snapshot at path. The current
// state is saved to a new backup first, outside rotation, and the whole
// operation holds the writer lock.
func (m *Manager) Restore(w *workspace.Workspace, path string) (string, transfer.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", transfer.Summary{}, fmt.Errorf("failed to open backup: %w", err)
	}
	data, err := transfer.Read(f)
	f.Close()
	if err != nil {
		return "", transfer.Summary{}, fmt.Errorf("failed to read backup: %w", err)
	}
	if _, err := transfer.Decode(data); err != nil {
		return "", transfer.Summary{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var (
		previous string
		summary  transfer.Summary
	)
	err = w.Exclusive(func() error {
		var err error
		previous, err = m.create(w, false)
		if err != nil {
			return fmt.Errorf("failed to back up current state before restore: %w", err)
		}
		summary, err = w.Import(data, merge.PolicyOverwrite)
		return err
	})
	if err != nil {
		return "", transfer.Summary{}, err
	}
	return previous, summary, nil
}
