package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS asset_records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		run_id TEXT NOT NULL,
		asset_name TEXT NOT NULL,
		path TEXT NOT NULL,
		format TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		checksum TEXT NOT NULL,
		data BLOB,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_asset_records_name ON asset_records (asset_name, seq)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) CreateRecord(record *AssetRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("record must not be nil")
	}
	if record.ID == "" {
		id, err := generateID()
		if err != nil {
			return "", err
		}
		record.ID = id
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tx.Rollback() // no-op after a successful commit
	}()

	_, err = tx.Exec(`INSERT INTO asset_records
		(id, run_id, asset_name, path, format, width, height, checksum, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.RunID, record.AssetName, record.Path, record.Format,
		record.Width, record.Height, record.Checksum, record.Data, record.CreatedAt.UnixNano())
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(`UPDATE asset_records SET data = NULL
		WHERE asset_name = ? AND id != ? AND data IS NOT NULL`, record.AssetName, record.ID)
	if err != nil {
		return "", fmt.Errorf("failed to drop superseded data: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (s *SQLiteDatabase) GetLatestRecord(assetName string) (*AssetRecord, error) {
	row := s.db.QueryRow(`SELECT id, run_id, asset_name, path, format, width, height, checksum, created_at
		FROM asset_records WHERE asset_name = ? ORDER BY seq DESC LIMIT 1`, assetName)

	record, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, assetName)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *SQLiteDatabase) GetRecordData(id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM asset_records WHERE id = ? AND data IS NOT NULL`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLiteDatabase) GetAllRecords() ([]*AssetRecord, error) {
	rows, err := s.db.Query(`SELECT id, run_id, asset_name, path, format, width, height, checksum, created_at
		FROM asset_records ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var records []*AssetRecord
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// scanRecord reads every column except data.
func scanRecord(scan func(dest ...any) error) (*AssetRecord, error) {
	var record AssetRecord
	var createdAt int64
	err := scan(&record.ID, &record.RunID, &record.AssetName, &record.Path, &record.Format,
		&record.Width, &record.Height, &record.Checksum, &createdAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = time.Unix(0, createdAt).UTC()
	return &record, nil
}
