package database

import (
	"database/sql"
	"fmt"
	"os"

	"kiosco_pos_backend/internal/config"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// InitDB opens the connection pool and, when a schema path is configured,
// applies the schema script. The script uses IF NOT EXISTS throughout so
// reapplying it is safe.
func InitDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.SchemaPath != "" {
		if err := applySchema(db, cfg.SchemaPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// applySchema reads and executes the schema SQL file.
func applySchema(db *sql.DB, schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	return nil
}
