package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/yearlit/internal/storage/postgres"
	"github.com/julianstephens/yearlit/internal/storage/sqlite"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		target   string
		expected Backend
	}{
		{target: "postgres://me@localhost/yearlit", expected: BackendPostgres},
		{target: "postgresql://me@localhost/yearlit", expected: BackendPostgres},
		{target: "~/.config/yearlit/data.json", expected: BackendJSON},
		{target: "/tmp/DATA.JSON", expected: BackendJSON},
		{target: "~/.config/yearlit/yearlit.db", expected: BackendSQLite},
		{target: "plainfile", expected: BackendSQLite},
		{target: ":memory:", expected: BackendMemory},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := Detect(tt.target); got != tt.expected {
				t.Errorf("Detect(%q) = %q, want %q", tt.target, got, tt.expected)
			}
		})
	}
}

func TestOpenTypes(t *testing.T) {
	dir := t.TempDir()

	p, err := Open(filepath.Join(dir, "store.json"))
	if err != nil {
		t.Fatalf("Open json: %v", err)
	}
	if _, ok := p.(*JSONStore); !ok {
		t.Errorf("Open(.json) returned %T", p)
	}

	p, err = Open(filepath.Join(dir, "store.db"))
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	if _, ok := p.(*sqlite.Store); !ok {
		t.Errorf("Open(.db) returned %T", p)
	}

	p, err = Open("postgres://me@localhost/yearlit")
	if err != nil {
		t.Fatalf("Open postgres: %v", err)
	}
	if _, ok := p.(*postgres.Store); !ok {
		t.Errorf("Open(postgres://) returned %T", p)
	}

	if _, err := Open("  "); err == nil {
		t.Error("Open(blank) should fail")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/.config/yearlit/yearlit.db")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, ".config/yearlit/yearlit.db") {
		t.Errorf("ExpandPath = %q", got)
	}

	got, _ = ExpandPath("/abs/path.db")
	if got != "/abs/path.db" {
		t.Errorf("ExpandPath changed an absolute path: %q", got)
	}
}

func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()

	if _, ok, err := p.Get("yearlit.ranges"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v err %v", ok, err)
	}
	if err := p.Set("yearlit.ranges", `[]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := p.Set("yearlit.entries", `{}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := p.Get("yearlit.ranges")
	if err != nil || !ok || v != `[]` {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}

	keys, err := p.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"yearlit.entries", "yearlit.ranges"}, keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}

	if err := p.Delete("yearlit.ranges"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := p.Delete("yearlit.ranges"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}
	if _, ok, _ := p.Get("yearlit.ranges"); ok {
		t.Error("key still present after Delete")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseProvider(t, NewMemoryStore())
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "yearlit.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	exerciseProvider(t, store)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("store file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("store file permissions = %o, want 600", perm)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, ok, _ := reopened.Get("yearlit.entries")
	if !ok || v != `{}` {
		t.Errorf("value did not survive reopen: %q %v", v, ok)
	}

	// Init on an existing file keeps its contents
	if err := NewJSONStore(path).Init(); err != nil {
		t.Fatalf("Init on existing file failed: %v", err)
	}
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok, _ := reopened.Get("yearlit.entries"); !ok {
		t.Error("Init on an existing file wiped stored values")
	}
}

func TestJSONStoreErrors(t *testing.T) {
	dir := t.TempDir()

	missing := NewJSONStore(filepath.Join(dir, "missing.json"))
	if err := missing.Load(); err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("Load on missing file = %v", err)
	}
	if _, _, err := missing.Get("k"); err == nil {
		t.Error("Get before Load should fail")
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONStore(corrupt).Load(); err == nil {
		t.Error("Load on corrupt file should fail")
	}

	future := filepath.Join(dir, "future.json")
	if err := os.WriteFile(future, []byte(`{"version": 99, "values": {}}`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONStore(future).Load(); err == nil {
		t.Error("Load on newer file version should fail")
	}
}
