package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bookshelf/pkg/db"
)

// TableRecord holds one whole table as JSON text.
type TableRecord struct {
	Name      string `gorm:"primaryKey;size:64"`
	Data      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (TableRecord) TableName() string { return "record_tables" }

type GormBackend struct {
	DB *gorm.DB
	// rowLocks makes Update take SELECT ... FOR UPDATE on the table row.
	rowLocks bool
	locks    tableLocks
}

var _ Backend = (*GormBackend)(nil)

func OpenGormBackend(ctx context.Context, opts Options) (*GormBackend, error) {
	driver := db.DriverSQLite
	if opts.Driver == DriverPostgres {
		driver = db.DriverPostgres
	}
	gdb, err := db.Open(ctx, db.Options{
		Driver:         driver,
		DSN:            opts.DatabaseURL,
		PostgresDriver: opts.PostgresDriver,
	})
	if err != nil {
		return nil, err
	}
	b, err := NewGormBackend(ctx, gdb)
	if err != nil {
		_ = db.Close(gdb)
		return nil, err
	}
	return b, nil
}

func NewGormBackend(ctx context.Context, gdb *gorm.DB) (*GormBackend, error) {
	if err := gdb.WithContext(ctx).AutoMigrate(&TableRecord{}); err != nil {
		return nil, fmt.Errorf("migrate record_tables: %w", err)
	}
	return &GormBackend{
		DB:       gdb,
		rowLocks: gdb.Dialector.Name() == "postgres",
	}, nil
}

func (b *GormBackend) Read(ctx context.Context, table string) ([]byte, error) {
	return b.read(b.DB.WithContext(ctx), table)
}

func (b *GormBackend) Write(ctx context.Context, table string, data []byte) error {
	m := b.locks.get(table)
	m.Lock()
	defer m.Unlock()

	return upsert(b.DB.WithContext(ctx), table, data)
}

func (b *GormBackend) Update(ctx context.Context, table string, fn func([]byte) ([]byte, error)) error {
	m := b.locks.get(table)
	m.Lock()
	defer m.Unlock()

	if b.rowLocks {
		// A row must exist before it can be locked by other processes.
		seed := TableRecord{Name: table, Data: "[]"}
		err := b.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&seed).Error
		if err != nil {
			return fmt.Errorf("seed table row: %w", err)
		}
	}

	return b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if b.rowLocks {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		current, err := b.read(q, table)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return upsert(tx, table, next)
	})
}

func (b *GormBackend) Close() error {
	return db.Close(b.DB)
}

func (b *GormBackend) read(q *gorm.DB, table string) ([]byte, error) {
	var rec TableRecord
	err := q.Where("name = ?", table).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Data), nil
}

func upsert(tx *gorm.DB, table string, data []byte) error {
	rec := TableRecord{Name: table, Data: string(data)}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
}
