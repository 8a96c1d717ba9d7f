package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/yearlit/internal/storage/postgres"
	"github.com/julianstephens/yearlit/internal/storage/sqlite"
)

// Backend names a storage adapter
type Backend string

const (
	BackendJSON     Backend = "json"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// Detect picks the backend for a store target: a PostgreSQL URL, a path
// ending in .json, ":memory:", or otherwise an SQLite database path.
func Detect(target string) Backend {
	switch {
	case postgres.IsConnString(target):
		return BackendPostgres
	case target == ":memory:":
		return BackendMemory
	case strings.EqualFold(filepath.Ext(target), ".json"):
		return BackendJSON
	default:
		return BackendSQLite
	}
}

// Open builds the Provider for target without touching the backend.
// Callers still run Init or Load.
func Open(target string) (Provider, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("store target cannot be empty")
	}

	switch Detect(target) {
	case BackendPostgres:
		return postgres.New(target), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	}

	path, err := ExpandPath(target)
	if err != nil {
		return nil, err
	}
	if Detect(path) == BackendJSON {
		return NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
