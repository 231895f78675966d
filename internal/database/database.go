package database

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"github.com/vendormart/vendormart-api/internal/config"
)

// Open initializes the MySQL connection pool from the loaded config
// and verifies connectivity with a ping before returning it.
func Open(cfg *config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
