package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Backend is an opened store that can report its health.
type Backend interface {
	Store
	Ping(ctx context.Context) error
}

type Options struct {
	Kind        string // sqlite, postgres, redis or memory
	DBPath      string
	RedisAddr   string
	PostgresDSN string

	// SQLite, when set, is reused instead of opening DBPath. It is not
	// closed by the returned close func.
	SQLite *sql.DB
}

// Open connects the backend named by opts.Kind. The close func releases
// whatever Open itself opened.
func Open(ctx context.Context, opts Options) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch opts.Kind {
	case "memory":
		return NewMemory(), noop, nil

	case "sqlite", "":
		db, closeDB := opts.SQLite, noop
		if db == nil {
			var err error
			if db, err = OpenSQLite(opts.DBPath); err != nil {
				return nil, nil, err
			}
			closeDB = db.Close
		}
		s, err := NewSQL(ctx, db, SQLite)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		return s, closeDB, nil

	case "postgres":
		db, err := OpenPostgres(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewSQL(ctx, db, Postgres)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, db.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		r := NewRedis(client)
		if err := r.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", opts.RedisAddr, err)
		}
		return r, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Kind)
}
