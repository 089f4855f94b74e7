package database

import (
	"fmt"
	"log/slog"
	"strings"
)

// NewDatabase opens the history store of the given type. An empty type or
// "none" yields ErrHistoryDisabled.
func NewDatabase(databaseType, connectionString string) (database DatabaseService, err error) {
	switch strings.ToLower(databaseType) {
	case "", "none":
		return nil, ErrHistoryDisabled
	case "sqlite":
		database, err = NewSQLiteDatabase(connectionString)
	case "redis":
		database, err = NewRedisDatabase(connectionString)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", databaseType)
	}
	if err != nil {
		return nil, err
	}

	// Ensure database schema exists (idempotent), important for in-memory SQLite
	slog.Debug("initializing history store", "type", databaseType)
	if err = database.CreateDatabase(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return database, nil
}
