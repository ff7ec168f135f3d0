package cli

import (
	"errors"
	"strings"

	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/storage/postgres"
	"github.com/julianstephens/habitquest/internal/storage/redis"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
)

// IsPostgres reports whether dsn selects the PostgreSQL backend.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=")
}

// OpenStore picks a backend from the DSN: PostgreSQL and Redis URLs, a
// .json file, otherwise a SQLite database path.
func OpenStore(dsn string) (storage.Provider, error) {
	return openStore(dsn, false)
}

// OpenKeyringStore is OpenStore for a DSN read from the OS keyring, where
// embedded PostgreSQL passwords are allowed.
func OpenKeyringStore(dsn string) (storage.Provider, error) {
	return openStore(dsn, true)
}

func openStore(dsn string, allowCredentials bool) (storage.Provider, error) {
	switch {
	case IsPostgres(dsn):
		if err := postgres.ValidateConnString(dsn); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				if allowCredentials {
					return postgres.New(dsn), nil
				}
				return nil, apperrors.WithHint(err, "store the connection string with 'habitquest keyring set', or use PGPASSWORD or a .pgpass file")
			}
			return nil, err
		}
		return postgres.New(dsn), nil
	case redis.IsURL(dsn):
		return redis.New(dsn), nil
	case strings.HasSuffix(strings.ToLower(dsn), ".json"):
		return storage.NewJSONStore(dsn), nil
	default:
		return sqlite.NewStore(dsn), nil
	}
}
