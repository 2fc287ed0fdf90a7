package reader

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Gopikrish-30/ReadUp/internal/migrations"
)

func GetDatabase(filename string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("while migrating database '%s': %w", filename, err)
	}
	return db, nil
}
