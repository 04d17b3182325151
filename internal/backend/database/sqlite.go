package database

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	sqlStore
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers anyway, and an in-memory database exists only
	// on the connection that created it.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		sqlStore:         sqlStore{db: db, dialect: sqliteDialect},
		connectionString: connectionString,
	}, nil
}
