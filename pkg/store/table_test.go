package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newFileBackend(t *testing.T) *FileBackend {
	t.Helper()
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return b
}

func newSQLiteBackend(t *testing.T) *GormBackend {
	t.Helper()
	b, err := OpenGormBackend(context.Background(), Options{
		Driver:      DriverSQLite,
		DatabaseURL: filepath.Join(t.TempDir(), "store.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func backends(t *testing.T) map[string]func(t *testing.T) Backend {
	return map[string]func(t *testing.T) Backend{
		"file":   func(t *testing.T) Backend { return newFileBackend(t) },
		"sqlite": func(t *testing.T) Backend { return newSQLiteBackend(t) },
	}
}

func TestTable_MissingTableIsEmpty(t *testing.T) {
	t.Parallel()

	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tbl := NewTable[record](mk(t), "users")

			got, err := tbl.Load(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestTable_SaveLoadKeepsOrder(t *testing.T) {
	t.Parallel()

	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			tbl := NewTable[record](mk(t), "users")

			in := []record{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
			require.NoError(t, tbl.Save(ctx, in))

			got, err := tbl.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, in, got)

			require.NoError(t, tbl.Save(ctx, in[:1]))
			got, err = tbl.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, in[:1], got)
		})
	}
}

func TestTable_ConcurrentUpdatesKeepEveryRecord(t *testing.T) {
	t.Parallel()

	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			tbl := NewTable[record](mk(t), "reviews")

			const writers = 100
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := tbl.Update(ctx, func(rs []record) ([]record, error) {
						return append(rs, record{ID: int64(len(rs) + 1)}), nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			got, err := tbl.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got, writers)
			for i, r := range got {
				assert.Equal(t, int64(i+1), r.ID)
			}
		})
	}
}

func TestTable_UpdateErrorLeavesTableUntouched(t *testing.T) {
	t.Parallel()

	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			tbl := NewTable[record](mk(t), "users")
			require.NoError(t, tbl.Save(ctx, []record{{ID: 1, Name: "a"}}))

			boom := errors.New("boom")
			err := tbl.Update(ctx, func(rs []record) ([]record, error) {
				return nil, boom
			})
			require.ErrorIs(t, err, boom)

			got, err := tbl.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []record{{ID: 1, Name: "a"}}, got)
		})
	}
}

func TestFileBackend_TextForm(t *testing.T) {
	t.Parallel()

	b := newFileBackend(t)
	tbl := NewTable[record](b, "users")
	require.NoError(t, tbl.Save(context.Background(), []record{{ID: 1, Name: "a"}}))

	raw, err := os.ReadFile(b.Path("users"))
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"name\": \"a\"\n  }\n]", string(raw))

	require.NoError(t, tbl.Save(context.Background(), nil))
	raw, err = os.ReadFile(b.Path("users"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	entries, err := os.ReadDir(filepath.Dir(b.Path("users")))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileBackend_CorruptTable(t *testing.T) {
	t.Parallel()

	b := newFileBackend(t)
	require.NoError(t, os.WriteFile(b.Path("users"), []byte("{not json"), 0o644))
	tbl := NewTable[record](b, "users")

	_, err := tbl.Load(context.Background())
	require.Error(t, err)

	err = tbl.Update(context.Background(), func(rs []record) ([]record, error) {
		return append(rs, record{ID: 1}), nil
	})
	require.Error(t, err)

	raw, err := os.ReadFile(b.Path("users"))
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestOpen(t *testing.T) {
	t.Parallel()

	b, err := Open(context.Background(), Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	_, err = Open(context.Background(), Options{Driver: "mongo"})
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestGormBackend_Postgres(t *testing.T) {
	dsn := os.Getenv("STORE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STORE_TEST_DATABASE_URL is not set")
	}

	for _, driver := range []string{"pgx", "pq"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			b, err := OpenGormBackend(ctx, Options{Driver: DriverPostgres, DatabaseURL: dsn, PostgresDriver: driver})
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })

			table := "test_" + driver
			require.NoError(t, b.DB.Where("name = ?", table).Delete(&TableRecord{}).Error)
			tbl := NewTable[record](b, table)

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, tbl.Update(ctx, func(rs []record) ([]record, error) {
						return append(rs, record{ID: int64(len(rs) + 1)}), nil
					}))
				}()
			}
			wg.Wait()

			got, err := tbl.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, got, 20)
		})
	}
}
