// Package surveydb is the sqlite store for survey data: annotator accounts,
// the conversations under study, and the Likert ratings annotators submit
// for them. It also produces the snapshot the analysis packages consume.
package surveydb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the survey database at path and brings
// the schema up to the latest migration.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey database: %w", err)
	}

	// sqlite allows one writer; busy_timeout keeps concurrent request
	// handlers from failing instead of waiting.
	if _, err := sqlDB.Exec(`PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		return nil, fmt.Errorf("failed to migrate survey database: %w", err)
	}

	return db, nil
}
