package database

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewRunID returns a random identifier grouping the records of one generation run.
func NewRunID() string {
	return uuid.NewString()
}

func generateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Checksum returns the hex SHA-256 digest of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
