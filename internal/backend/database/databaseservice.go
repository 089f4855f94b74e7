package database

import "errors"

var (
	// ErrRecordNotFound is returned when no record matches a lookup.
	ErrRecordNotFound = errors.New("record not found")
	// ErrHistoryDisabled is returned by NewDatabase when no history store is configured.
	ErrHistoryDisabled = errors.New("generation history is disabled")
)

type DatabaseService interface {
	CreateDatabase() error
	DoesDatabaseExist() bool
	Close() error

	// CreateRecord stores record, assigning its ID and creation time when unset, and returns the ID.
	// Only the newest record of an asset keeps its encoded bytes.
	CreateRecord(record *AssetRecord) (string, error)
	// GetLatestRecord returns the most recently stored record for an asset, without
	// the encoded bytes, or ErrRecordNotFound.
	GetLatestRecord(assetName string) (*AssetRecord, error)
	// GetRecordData returns the encoded bytes of a record, or ErrRecordNotFound when
	// the record is unknown or its bytes were superseded.
	GetRecordData(id string) ([]byte, error)
	// GetAllRecords returns every record, newest first, without the encoded bytes.
	GetAllRecords() ([]*AssetRecord, error)
}
