package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitquest/internal/storage"
)

func (s *Store) ReadSnapshot(key string) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}
	var data []byte
	err := s.db.QueryRow("SELECT value FROM snapshots WHERE key = $1", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) WriteSnapshot(key string, data []byte) error {
	return s.WriteSnapshots(map[string][]byte{key: data})
}

func (s *Store) WriteSnapshots(entries map[string][]byte) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO snapshots (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, data := range entries {
		if _, err := stmt.Exec(key, data); err != nil {
			return fmt.Errorf("failed to write snapshot %s: %w", key, err)
		}
	}
	return tx.Commit()
}
