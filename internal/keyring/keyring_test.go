package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	dsn := "postgres://habitquest@localhost:5432/habitquest?sslmode=disable"
	if err := SetConnectionString(dsn); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != dsn {
		t.Errorf("GetConnectionString() = %q, want %q", got, dsn)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete, error = %v, want %v", err, ErrNotFound)
	}
}

func TestEntriesAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(EntrySubscription, `{"endpoint":"https://push.example"}`); err != nil {
		t.Fatal(err)
	}
	if _, err := Get(EntryConnection); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(connection) error = %v, want %v", err, ErrNotFound)
	}
	if v, err := Get(EntrySubscription); err != nil || v == "" {
		t.Errorf("Get(subscription) = %q, %v", v, err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := Set(EntryConnection, ""); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("Set(\"\") error = %v, want %v", err, ErrEmptyValue)
	}
}

func TestDeleteMissing(t *testing.T) {
	gokeyring.MockInit()
	if err := Delete(EntryConnection); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	defer gokeyring.MockInit()

	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
	if _, err := Get(EntryConnection); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want %v", err, ErrKeyringUnavailable)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false in mock mode")
	}
}
