// Package lock provides the single-writer lockfile that keeps two yearlit
// processes from applying imports or restores at the same time.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrLocked is returned when another live yearlit process holds the lock
var ErrLocked = errors.New("another yearlit process is writing")

// Holder describes the process recorded in a lockfile
type Holder struct {
	PID        int
	Executable string
	AcquiredAt time.Time
}

// Lock is a held lockfile. Release it when the write is done.
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile location inside dir
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire takes the writer lock in dir. A lockfile left behind by a process
// that is no longer running, or whose PID now belongs to another program,
// is treated as stale and replaced.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := Path(dir)
	pid := getpidFunc()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			line := fmt.Sprintf("%d|%s|%s", pid, selfExecutable(pid), time.Now().UTC().Format(time.RFC3339))
			_, werr := f.WriteString(line)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, rerr := Read(path)
		if rerr == nil && holder.PID != pid && alive(holder) {
			return nil, fmt.Errorf("%w (pid %d since %s)", ErrLocked, holder.PID, holder.AcquiredAt.Format(time.RFC3339))
		}
		logger.Warn("Removing stale lockfile", "path", path, "error", rerr)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, ErrLocked
}

// Release removes the lockfile if it still belongs to this lock
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	holder, err := Read(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if holder.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Read parses a lockfile of the form pid|executable|acquired-at
func Read(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, fmt.Errorf("failed to read lockfile: %w", err)
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Holder{}, errors.New("lockfile is malformed")
	}

	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid < 1 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	executable := strings.TrimSpace(parts[1])
	if executable == "" {
		return Holder{}, errors.New("executable in lockfile is empty")
	}
	at, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return Holder{}, errors.New("invalid timestamp in lockfile")
	}

	return Holder{PID: pid, Executable: executable, AcquiredAt: at}, nil
}

// Status reports the current holder of the lock in dir, if any live one exists
func Status(dir string) (Holder, bool) {
	holder, err := Read(Path(dir))
	if err != nil || !alive(holder) {
		return Holder{}, false
	}
	return holder, true
}

func alive(h Holder) bool {
	process, err := findProcessFunc(h.PID)
	if err != nil || process == nil {
		return false
	}
	return process.Executable() == h.Executable
}

func selfExecutable(pid int) string {
	if p, err := findProcessFunc(pid); err == nil && p != nil && p.Executable() != "" {
		return p.Executable()
	}
	return filepath.Base(os.Args[0])
}
