// Package redis stores snapshots as fields of Redis hashes under a key
// prefix, so several profiles can share one server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/storage"
)

const opTimeout = 5 * time.Second

type Store struct {
	url    string
	prefix string
	client *goredis.Client
}

// New returns a store for a redis:// or rediss:// URL. A "prefix" query
// parameter overrides the default key prefix.
func New(rawURL string) *Store {
	prefix := constants.AppName
	if u, err := url.Parse(rawURL); err == nil {
		q := u.Query()
		if p := q.Get("prefix"); p != "" {
			prefix = p
		}
		q.Del("prefix")
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}
	return &Store{url: rawURL, prefix: prefix}
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) snapshotsKey() string { return s.prefix + ":snapshots" }
func (s *Store) updatedKey() string   { return s.prefix + ":updated" }
func (s *Store) settingsKey() string  { return s.prefix + ":settings" }

func ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func (s *Store) connect() error {
	if s.client == nil {
		opts, err := goredis.ParseURL(s.url)
		if err != nil {
			return fmt.Errorf("invalid redis URL: %w", err)
		}
		s.client = goredis.NewClient(opts)
	}
	c, cancel := ctx()
	defer cancel()
	if err := s.client.Ping(c).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(models.DefaultAppSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *Store) Load() error {
	return s.connect()
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// GetConfigPath returns a non-sensitive identifier instead of the URL.
func (s *Store) GetConfigPath() string {
	return "redis:" + s.prefix
}

func (s *Store) ReadSnapshot(key string) ([]byte, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}
	c, cancel := ctx()
	defer cancel()
	data, err := s.client.HGet(c, s.snapshotsKey(), key).Bytes()
	if errors.Is(err, goredis.Nil) {
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

// WriteSnapshots runs every HSET inside one MULTI/EXEC.
func (s *Store) WriteSnapshots(entries map[string][]byte) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	if len(entries) == 0 {
		return nil
	}
	values := make(map[string]any, len(entries))
	stamps := make(map[string]any, len(entries))
	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range entries {
		values[k] = v
		stamps[k] = now
	}

	c, cancel := ctx()
	defer cancel()
	_, err := s.client.TxPipelined(c, func(p goredis.Pipeliner) error {
		p.HSet(c, s.snapshotsKey(), values)
		p.HSet(c, s.updatedKey(), stamps)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	return nil
}

func (s *Store) GetSettings() (models.AppSettings, error) {
	if s.client == nil {
		return models.AppSettings{}, storage.ErrNotLoaded
	}
	c, cancel := ctx()
	defer cancel()
	kv, err := s.client.HGetAll(c, s.settingsKey()).Result()
	if err != nil {
		return models.AppSettings{}, err
	}
	if len(kv) == 0 {
		return models.AppSettings{}, fmt.Errorf("settings not found")
	}
	return storage.DecodeSettings(kv)
}

func (s *Store) SaveSettings(settings models.AppSettings) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	c, cancel := ctx()
	defer cancel()
	fields := map[string]any{}
	for k, v := range storage.EncodeSettings(settings) {
		fields[k] = v
	}
	if err := s.client.HSet(c, s.settingsKey(), fields).Err(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// IsURL reports whether dsn selects the Redis backend.
func IsURL(dsn string) bool {
	return strings.HasPrefix(dsn, "redis://") || strings.HasPrefix(dsn, "rediss://")
}

var _ storage.Provider = (*Store)(nil)
