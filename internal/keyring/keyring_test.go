package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/yearlit/internal/constants"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://tester@localhost:5432/yearlit?sslmode=disable"
	if err := SetConnectionString("  " + connStr + "\n"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("   "); err == nil {
		t.Error("SetConnectionString with blank input should fail")
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteConnectionString() on empty keyring = %v, want ErrNotFound", err)
	}

	if err := SetConnectionString("postgres://u@h/db"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() after delete = %v, want ErrNotFound", err)
	}
}

func TestResolveConnectionString(t *testing.T) {
	gokeyring.MockInit()

	t.Setenv(constants.ConnectionEnvVar, "")
	if _, _, err := ResolveConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveConnectionString() with nothing stored = %v, want ErrNotFound", err)
	}

	if err := SetConnectionString("postgres://from-keyring@h/db"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	got, src, err := ResolveConnectionString()
	if err != nil || src != SourceKeyring || got != "postgres://from-keyring@h/db" {
		t.Errorf("ResolveConnectionString() = %q, %q, %v; want keyring value", got, src, err)
	}

	t.Setenv(constants.ConnectionEnvVar, "postgres://from-env@h/db")
	got, src, err = ResolveConnectionString()
	if err != nil || src != SourceEnv || got != "postgres://from-env@h/db" {
		t.Errorf("ResolveConnectionString() = %q, %q, %v; want env value", got, src, err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should report available")
	}
}
