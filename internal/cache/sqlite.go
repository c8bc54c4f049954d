package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// Snapshots is the local durable cache: one serialized collection per key.
type Snapshots struct {
	db  DBTX
	now func() time.Time
}

type SnapshotInfo struct {
	Key       string
	Items     int
	Bytes     int
	UpdatedAt time.Time
}

func Open(dbPath string, migrationsFS fs.FS) (*Snapshots, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("can not create cache directory %s: %w", dbDir, err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("can not open cache: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("can not connect with cache: %w", err)
	}
	if err := runMigrations(db, migrationsFS); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache: %w", err)
	}

	return &Snapshots{db: db, now: time.Now}, nil
}

func (s *Snapshots) ExecTx(fn func(*Snapshots) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return fmt.Errorf("cache is already in a transaction")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err := fn(&Snapshots{db: tx, now: s.now}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (s *Snapshots) Close() error {
	if db, ok := s.db.(*sql.DB); ok {
		return db.Close()
	}
	return nil
}

func runMigrations(db *sql.DB, migrationsFS fs.FS) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to set up migrate driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to set up migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migration(up): %w", err)
	}

	return nil
}

// Save replaces the snapshot stored under key with the JSON encoding of v.
func (s *Snapshots) Save(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (key, payload, item_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			item_count = excluded.item_count,
			updated_at = excluded.updated_at
	`, key, payload, itemCount(v), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	return nil
}

// SaveMany writes all entries in a single transaction.
func (s *Snapshots) SaveMany(entries map[string]any) error {
	return s.ExecTx(func(tx *Snapshots) error {
		for key, v := range entries {
			if err := tx.Save(key, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load decodes the snapshot under key into dst. It reports false when no
// snapshot has been written yet.
func (s *Snapshots) Load(key string, dst any) (bool, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM snapshots WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return true, nil
}

func (s *Snapshots) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Snapshots) List() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(`
		SELECT key, item_count, length(payload), updated_at
		FROM snapshots
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var updated int64
		if err := rows.Scan(&info.Key, &info.Items, &info.Bytes, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		info.UpdatedAt = time.UnixMilli(updated)
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

func itemCount(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	default:
		return 1
	}
}
