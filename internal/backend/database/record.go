package database

import "time"

// AssetRecord is one generated asset as written during a run.
type AssetRecord struct {
	ID        string    `db:"id" json:"id"`
	RunID     string    `db:"run_id" json:"runId"`
	AssetName string    `db:"asset_name" json:"assetName"`
	Path      string    `db:"path" json:"path"`
	Format    string    `db:"format" json:"format"`
	Width     int       `db:"width" json:"width"`
	Height    int       `db:"height" json:"height"`
	Checksum  string    `db:"checksum" json:"checksum"` // hex SHA-256 of Data
	Data      []byte    `db:"data" json:"-"`            // encoded container bytes
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
