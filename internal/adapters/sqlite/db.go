// Package sqlite backs the repositories with an embedded SQLite database through gorm.
// It serves single-node deployments and local development where Postgres is unavailable.
package sqlite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// connOpts enables WAL journaling and enforces foreign keys on every connection.
const connOpts = "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open opens (creating when needed) the database at path and migrates the schema.
// An empty path opens a private in-memory database.
func Open(path string) (*gorm.DB, error) {
	var dsn string
	if path == "" {
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	} else {
		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read data dir: %w", err)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?%s", path, connOpts)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == "" {
		// A shared-cache memory database lives only while a connection holds it open.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		_ = Close(db)
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UTCDate normalizes a stored date to UTC midnight.
func UTCDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.UTC().Date()
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}

// OwnerRowID resolves a user's external id to its row id.
func OwnerRowID(tx *gorm.DB, userID string) (uint, bool, error) {
	var row UserRow
	err := tx.Select("id").Where("external_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.ID, true, nil
}
