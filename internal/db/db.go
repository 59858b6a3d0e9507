package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/logfile/internal/config"
	_ "modernc.org/sqlite"
)

// FileName is the journal database inside the base directory.
const FileName = "logfile.db"

// dsnPragmas are applied to every pooled connection.
const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// migrations[i] upgrades the schema from version i to i+1.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS saves (
	   id       TEXT PRIMARY KEY,
	   log_id   TEXT,
	   kind     TEXT NOT NULL,
	   path     TEXT NOT NULL,
	   entries  INTEGER NOT NULL,
	   bytes    INTEGER NOT NULL,
	   saved_at INTEGER NOT NULL
	 );
	 CREATE INDEX IF NOT EXISTS idx_saves_saved_at ON saves(saved_at DESC);
	 CREATE INDEX IF NOT EXISTS idx_saves_path ON saves(path, saved_at DESC);`,
}

// CurrentSchemaVersion is the version reached after every migration runs.
var CurrentSchemaVersion = len(migrations)

// Init opens (creating if needed) the save journal under baseDir and brings
// its schema up to date. Tests pass t.TempDir(); the binary passes ~/.logfile.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, FileName)
	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, step := range []func(*sql.DB) error{verifyWALMode, migrate} {
		if err := step(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	_ = os.Chmod(dbPath, 0600)
	return db, nil
}

// ConfigurePool applies db_max_open_conns / db_max_idle_conns when set.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if n := cfg.DBMaxOpenConns; n > 0 {
		db.SetMaxOpenConns(n)
	}
	if n := cfg.DBMaxIdleConns; n > 0 {
		db.SetMaxIdleConns(n)
	}
}

// migrate runs every migration newer than user_version, each in its own
// transaction together with the version bump.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	for v := version; v < len(migrations); v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version=%d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: failed to set user_version: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
	}
	return nil
}

func verifyWALMode(db *sql.DB) error {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", mode)
	}
	return nil
}

// GetUserVersion returns the schema version stored in the user_version pragma.
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion overwrites the user_version pragma.
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
