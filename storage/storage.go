// Package storage opens the record store configured for the app.
package storage

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/storage/database"
	"github.com/trezcool/tasktutor/storage/database/inmem"
	"github.com/trezcool/tasktutor/storage/database/sqlx"
	"github.com/trezcool/tasktutor/storage/postgrest"
)

// Store is a core.RecordStore that may hold a connection to release.
type Store interface {
	core.RecordStore
	io.Closer
}

type nopCloser struct {
	core.RecordStore
}

func (nopCloser) Close() error { return nil }

type sqlStore struct {
	*sqlxstore.Store
	io.Closer
}

// Open selects the backend from the scheme of conf.Store.URL:
// http(s) for a PostgREST API, postgres or sqlite for SQL databases (migrated on open), mem for in-memory.
func Open(ctx context.Context, conf *core.Config) (Store, error) {
	scheme := strings.ToLower(strings.SplitN(conf.Store.URL, ":", 2)[0])
	switch scheme {
	case "http", "https":
		client := &http.Client{Timeout: 30 * time.Second}
		return nopCloser{postgrest.New(conf.Store.URL, conf.Store.Key, client)}, nil
	case "postgres", "postgresql", "sqlite", "sqlite3":
		db, err := database.Open(ctx, conf.Store.URL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlStore{Store: sqlxstore.New(db), Closer: db}, nil
	case "mem":
		db, _ := inmemdb.Open()
		return db, nil
	default:
		return nil, errors.Errorf("unsupported record store URL scheme %q", scheme)
	}
}

// Ping checks that the store answers a query on the users table.
func Ping(ctx context.Context, store core.RecordStore) error {
	_, err := store.Select(ctx, "users", core.Match{"id": ""})
	return err
}
