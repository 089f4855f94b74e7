package database

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func newTestDB(t *testing.T) DatabaseService {
	t.Helper()

	ds, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase error: %v", err)
	}
	if err := ds.CreateDatabase(); err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func newRecord(runID, name string, data []byte) *AssetRecord {
	return &AssetRecord{
		RunID:     runID,
		AssetName: name,
		Path:      "installer/" + name,
		Format:    "bmp",
		Width:     164,
		Height:    314,
		Checksum:  Checksum(data),
		Data:      data,
	}
}

// exerciseDatabaseService runs the behavior every history store must share.
func exerciseDatabaseService(t *testing.T, ds DatabaseService) {
	t.Helper()

	if !ds.DoesDatabaseExist() {
		t.Fatalf("expected DoesDatabaseExist to return true")
	}

	if _, err := ds.GetLatestRecord("wizard-image"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on empty store, got %v", err)
	}

	records, err := ds.GetAllRecords()
	if err != nil {
		t.Fatalf("GetAllRecords error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}

	run1, run2 := NewRunID(), NewRunID()
	first := newRecord(run1, "wizard-image", []byte{0x01, 0x02})
	id1, err := ds.CreateRecord(first)
	if err != nil {
		t.Fatalf("CreateRecord #1 error: %v", err)
	}
	if id1 == "" || first.ID != id1 {
		t.Fatalf("expected ID to be assigned, got %q / %q", id1, first.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be assigned")
	}

	if _, err := ds.CreateRecord(newRecord(run1, "icon", []byte{0x10})); err != nil {
		t.Fatalf("CreateRecord #2 error: %v", err)
	}
	id3, err := ds.CreateRecord(newRecord(run2, "wizard-image", []byte{0x03}))
	if err != nil {
		t.Fatalf("CreateRecord #3 error: %v", err)
	}

	latest, err := ds.GetLatestRecord("wizard-image")
	if err != nil {
		t.Fatalf("GetLatestRecord error: %v", err)
	}
	if latest.ID != id3 || latest.RunID != run2 {
		t.Errorf("expected latest record %s of run %s, got %s of run %s", id3, run2, latest.ID, latest.RunID)
	}
	if latest.Data != nil {
		t.Errorf("expected latest record without data, got %v", latest.Data)
	}
	if latest.Checksum != Checksum([]byte{0x03}) {
		t.Errorf("unexpected checksum %s", latest.Checksum)
	}
	if latest.Width != 164 || latest.Height != 314 || latest.Format != "bmp" || latest.Path != "installer/wizard-image" {
		t.Errorf("unexpected record fields %+v", latest)
	}
	if time.Since(latest.CreatedAt) > time.Minute {
		t.Errorf("unexpected creation time %v", latest.CreatedAt)
	}

	records, err = ds.GetAllRecords()
	if err != nil {
		t.Fatalf("GetAllRecords error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ID != id3 || records[2].ID != id1 {
		t.Errorf("expected newest first, got %s ... %s", records[0].ID, records[2].ID)
	}
	for i, r := range records {
		if r.Data != nil {
			t.Errorf("record[%d].Data is not nil; expected listing without data", i)
		}
	}

	data, err := ds.GetRecordData(id3)
	if err != nil {
		t.Fatalf("GetRecordData error: %v", err)
	}
	if !bytes.Equal(data, []byte{0x03}) {
		t.Errorf("expected data [0x03], got %v", data)
	}
	// A newer record of the same asset supersedes the older bytes.
	if _, err := ds.GetRecordData(id1); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected superseded data to be dropped, got %v", err)
	}
	if _, err := ds.GetRecordData("unknown"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for unknown id, got %v", err)
	}
	// Other assets keep theirs.
	iconLatest, err := ds.GetLatestRecord("icon")
	if err != nil {
		t.Fatalf("GetLatestRecord(icon) error: %v", err)
	}
	if data, err := ds.GetRecordData(iconLatest.ID); err != nil || !bytes.Equal(data, []byte{0x10}) {
		t.Errorf("expected icon data [0x10], got %v (%v)", data, err)
	}

	if _, err := ds.CreateRecord(nil); err == nil {
		t.Error("expected error for nil record")
	}
}

func TestSQLite_DatabaseService(t *testing.T) {
	exerciseDatabaseService(t, newTestDB(t))
}

func TestSQLite_CreateDatabaseIsIdempotent(t *testing.T) {
	ds := newTestDB(t)
	if err := ds.CreateDatabase(); err != nil {
		t.Fatalf("second CreateDatabase error: %v", err)
	}
}

func TestSQLite_KeepsProvidedID(t *testing.T) {
	ds := newTestDB(t)
	record := newRecord(NewRunID(), "icon", []byte{0x01})
	record.ID = "fixed-id"

	id, err := ds.CreateRecord(record)
	if err != nil {
		t.Fatal(err)
	}
	if id != "fixed-id" {
		t.Errorf("expected provided ID to be kept, got %s", id)
	}

	if _, err := ds.CreateRecord(record); err == nil {
		t.Error("expected duplicate ID to be rejected")
	}
}
