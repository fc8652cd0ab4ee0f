package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Skotchmaster/bookshelf/pkg/logging"
)

// Table is a typed view over one named collection.
type Table[T any] struct {
	name    string
	backend Backend
}

func NewTable[T any](backend Backend, name string) *Table[T] {
	return &Table[T]{name: name, backend: backend}
}

// Load returns the records in stored order. A table that does not exist yet is empty.
func (t *Table[T]) Load(ctx context.Context) ([]T, error) {
	data, err := t.backend.Read(ctx, t.name)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", t.name, err)
	}
	return t.decode(data)
}

// Save replaces the whole table with records.
func (t *Table[T]) Save(ctx context.Context, records []T) error {
	data, err := encode(records)
	if err != nil {
		return fmt.Errorf("encode table %s: %w", t.name, err)
	}
	if err := t.backend.Write(ctx, t.name, data); err != nil {
		return fmt.Errorf("write table %s: %w", t.name, err)
	}
	return nil
}

// Update loads the table, applies fn and saves the result while no other
// Update on the same table can run. An error from fn or from reading the
// table leaves the stored content untouched.
func (t *Table[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	l := logging.FromContext(ctx).With("table", t.name)

	err := t.backend.Update(ctx, t.name, func(current []byte) ([]byte, error) {
		records, err := t.decode(current)
		if err != nil {
			return nil, err
		}
		next, err := fn(records)
		if err != nil {
			return nil, err
		}
		l.Debug("table_update", "before", len(records), "after", len(next))
		return encode(next)
	})
	if err != nil {
		return fmt.Errorf("update table %s: %w", t.name, err)
	}
	return nil
}

func (t *Table[T]) decode(data []byte) ([]T, error) {
	records := make([]T, 0)
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode table %s: %w", t.name, err)
	}
	if records == nil {
		records = make([]T, 0)
	}
	return records, nil
}

func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = make([]T, 0)
	}
	return json.MarshalIndent(records, "", "  ")
}
