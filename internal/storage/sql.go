package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marcboeker/go-duckdb"
	"github.com/sirupsen/logrus"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// SQLStore implements ShareStore on a database/sql handle. The payload column holds the
// msgpack-encoded location list so both DuckDB and SQLite use the same schema.
type SQLStore struct {
	db      *sql.DB
	dialect string
	log     *logrus.Entry
}

const createSharesTable = `
	CREATE TABLE IF NOT EXISTS shares (
		code       VARCHAR PRIMARY KEY,
		locations  BLOB NOT NULL,
		created_at BIGINT NOT NULL
	)`

// NewDuckDBStore opens (or creates) a DuckDB file at dbPath.
func NewDuckDBStore(dbPath string, logger *logrus.Logger) (*SQLStore, error) {
	log := logging.Component(logger, "duckdb")
	if err := ensureParentDir(dbPath); err != nil {
		return nil, err
	}

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				log.WithError(err).WithField("pragma", pragma).Warn("pragma failed")
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	return newSQLStore(sql.OpenDB(connector), "duckdb", log)
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath using the pure Go driver.
func NewSQLiteStore(dbPath string, logger *logrus.Logger) (*SQLStore, error) {
	log := logging.Component(logger, "sqlite")
	if err := ensureParentDir(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// single writer keeps SQLite away from SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.WithError(err).Warn("could not set WAL mode")
	}

	return newSQLStore(db, "sqlite", log)
}

func newSQLStore(db *sql.DB, dialect string, log *logrus.Entry) (*SQLStore, error) {
	if _, err := db.Exec(createSharesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create shares table: %w", err)
	}
	log.Info("share store ready")
	return &SQLStore{db: db, dialect: dialect, log: log}, nil
}

// Put inserts the payload. An existing code yields ErrShareExists.
func (s *SQLStore) Put(ctx context.Context, code string, locations []models.SharedLocation) error {
	payload, err := msgpack.Marshal(locations)
	if err != nil {
		return fmt.Errorf("encoding share payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO shares (code, locations, created_at) VALUES (?, ?, ?)`,
		code, payload, time.Now().UnixMilli())
	if err == nil {
		s.log.WithFields(logrus.Fields{"code": code, "locations": len(locations)}).Debug("share stored")
		return nil
	}

	if exists, lookupErr := s.exists(ctx, code); lookupErr == nil && exists {
		return ErrShareExists
	}
	return fmt.Errorf("inserting share %s: %w", code, err)
}

// Get loads and decodes the payload stored under code.
func (s *SQLStore) Get(ctx context.Context, code string) ([]models.SharedLocation, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT locations FROM shares WHERE code = ?`, code).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying share %s: %w", code, err)
	}

	var locations []models.SharedLocation
	if err := msgpack.Unmarshal(payload, &locations); err != nil {
		return nil, fmt.Errorf("decoding share %s: %w", code, err)
	}
	return locations, nil
}

func (s *SQLStore) exists(ctx context.Context, code string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shares WHERE code = ?`, code).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Dialect reports which driver backs the store ("duckdb" or "sqlite").
func (s *SQLStore) Dialect() string {
	return s.dialect
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
