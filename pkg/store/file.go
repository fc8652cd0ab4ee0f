package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps each table in <dir>/<table>.json.
type FileBackend struct {
	dir   string
	locks tableLocks
}

var _ Backend = (*FileBackend)(nil)

func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) Path(table string) string {
	return filepath.Join(b.dir, table+".json")
}

func (b *FileBackend) Read(ctx context.Context, table string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Path(table))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (b *FileBackend) Write(ctx context.Context, table string, data []byte) error {
	m := b.locks.get(table)
	m.Lock()
	defer m.Unlock()

	return b.write(ctx, table, data)
}

func (b *FileBackend) Update(ctx context.Context, table string, fn func([]byte) ([]byte, error)) error {
	m := b.locks.get(table)
	m.Lock()
	defer m.Unlock()

	current, err := b.Read(ctx, table)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return b.write(ctx, table, next)
}

func (b *FileBackend) Close() error { return nil }

// write replaces the table file through a rename so readers never see a
// partially written table.
func (b *FileBackend) write(ctx context.Context, table string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, table+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), b.Path(table)); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
