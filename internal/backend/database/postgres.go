package database

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
)

type PostgresDatabase struct {
	sqlStore
}

func NewPostgresDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, err
	}
	return &PostgresDatabase{
		sqlStore: sqlStore{db: db, dialect: postgresDialect},
	}, nil
}
