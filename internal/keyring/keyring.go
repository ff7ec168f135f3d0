// Package keyring keeps secrets such as database DSNs in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitquest/internal/constants"
)

// Entries stored under the app's keyring service
const (
	EntryConnection   = constants.DefaultKeyringUser
	EntrySubscription = "relay-subscription"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	ErrEmptyValue         = errors.New("keyring value cannot be empty")
)

// Get returns the secret stored under entry.
func Get(entry string) (string, error) {
	v, err := gokeyring.Get(constants.AppName, entry)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func Set(entry, value string) error {
	if value == "" {
		return ErrEmptyValue
	}
	if err := gokeyring.Set(constants.AppName, entry, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", entry, err)
	}
	return nil
}

func Delete(entry string) error {
	err := gokeyring.Delete(constants.AppName, entry)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s from keyring: %w", entry, err)
	}
	return nil
}

// GetConnectionString returns the stored storage DSN.
func GetConnectionString() (string, error) { return Get(EntryConnection) }

func SetConnectionString(dsn string) error { return Set(EntryConnection, dsn) }

func DeleteConnectionString() error { return Delete(EntryConnection) }

// IsAvailable probes the keyring with a read. A missing entry still means
// the keyring works.
func IsAvailable() bool {
	_, err := gokeyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, gokeyring.ErrNotFound)
}
