// Package store keeps named collections of JSON records. Every table is read and
// written as a whole; Update is the only way to mutate a table without racing
// other writers.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Skotchmaster/bookshelf/pkg/config"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Backend stores the raw JSON text of each table. Read returns nil data and a
// nil error for a table that was never written.
type Backend interface {
	Read(ctx context.Context, table string) ([]byte, error)
	Write(ctx context.Context, table string, data []byte) error
	// Update holds the table's writer lock across fn. When fn returns an error
	// nothing is written.
	Update(ctx context.Context, table string, fn func(current []byte) ([]byte, error)) error
	Close() error
}

type Options struct {
	Driver         string
	Dir            string
	DatabaseURL    string
	PostgresDriver string
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Driver:         cfg.StoreDriver,
		Dir:            cfg.StoreDir,
		DatabaseURL:    cfg.DatabaseURL,
		PostgresDriver: cfg.PostgresDriver,
	}
}

func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case "", DriverFile:
		return NewFileBackend(opts.Dir)
	case DriverSQLite, DriverPostgres:
		return OpenGormBackend(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

type tableLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *tableLocks) get(table string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[table]
	if !ok {
		m = new(sync.Mutex)
		l.locks[table] = m
	}
	return m
}
