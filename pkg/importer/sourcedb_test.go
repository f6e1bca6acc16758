package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeAdapter implements Adapter for seeding.
type fakeAdapter struct {
	id, datasetID, desc, url, license, country string
}

func (f *fakeAdapter) ID() string          { return f.id }
func (f *fakeAdapter) DatasetID() string   { return f.datasetID }
func (f *fakeAdapter) Country() string     { return f.country }
func (f *fakeAdapter) Description() string { return f.desc }
func (f *fakeAdapter) DefaultURL() string  { return f.url }
func (f *fakeAdapter) License() string     { return f.license }
func (f *fakeAdapter) Import(context.Context, string, string) error {
	return nil
}

func tempSourceDB(t *testing.T) *SourceDB {
	t.Helper()
	sdb, err := OpenSourceDB(filepath.Join(t.TempDir(), "sources.db"))
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	t.Cleanup(func() { sdb.Close() })
	return sdb
}

func mustSeed(t *testing.T, sdb *SourceDB, adapters ...Adapter) {
	t.Helper()
	if err := sdb.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}
}

func TestOpenSourceDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.db")
	sdb, err := OpenSourceDB(path)
	if err != nil {
		t.Fatalf("OpenSourceDB: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file: %v", err)
	}
	if sources, err := sdb.ListSources(); err != nil || len(sources) != 0 {
		t.Fatalf("fresh db = %v, %v", sources, err)
	}
	mustSeed(t, sdb, &fakeAdapter{id: "a", datasetID: "d", country: "us", url: "https://x"})
	sdb.Close()

	// Reopening must find the migrations applied and the row intact.
	sdb, err = OpenSourceDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer sdb.Close()
	if sources, err := sdb.ListSources(); err != nil || len(sources) != 1 {
		t.Errorf("after reopen = %v, %v", sources, err)
	}
}

func TestSeed_KeepsExistingRows(t *testing.T) {
	sdb := tempSourceDB(t)
	mustSeed(t, sdb,
		&fakeAdapter{id: "fb-us", datasetID: "us-bls", desc: "BLS", url: "https://files.example.com/api/raw/us.csv", license: "PD", country: "us"},
		&fakeAdapter{id: "fb-gb", datasetID: "gb-ons", desc: "ONS", url: "https://files.example.com/api/raw/gb.csv", license: "OGL v3", country: "gb"},
	)
	mustSeed(t, sdb, &fakeAdapter{id: "fb-us", datasetID: "us-bls", url: "https://changed.example.com", country: "us"})

	url, err := sdb.GetURL("fb-us")
	if err != nil || url != "https://files.example.com/api/raw/us.csv" {
		t.Errorf("GetURL = %q, %v; re-seed must not overwrite", url, err)
	}

	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 || sources[0].AdapterID != "fb-gb" {
		t.Fatalf("sources not ordered by id: %+v", sources)
	}
	gb := sources[0]
	if gb.DatasetID != "gb-ons" || gb.Country != "gb" || gb.License != "OGL v3" || gb.LastCheck != nil {
		t.Errorf("gb row = %+v", gb)
	}
}

func TestUpdates_UnknownSource(t *testing.T) {
	sdb := tempSourceDB(t)
	checks := map[string]error{
		"GetURL":       func() error { _, err := sdb.GetURL("nope"); return err }(),
		"SetURL":       sdb.SetURL("nope", "https://x"),
		"UpdateCheck":  sdb.UpdateCheck("nope", 200, ""),
		"RecordImport": sdb.RecordImport("nope", 1),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrUnknownSource) {
			t.Errorf("%s: err = %v, want ErrUnknownSource", name, err)
		}
	}
}

func TestSetURL(t *testing.T) {
	sdb := tempSourceDB(t)
	sdb.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	mustSeed(t, sdb, &fakeAdapter{id: "pg-us", datasetID: "us-pg", url: "postgres://old", country: "us"})

	sdb.now = func() time.Time { return time.Unix(1_800_000_000, 0) }
	if err := sdb.SetURL("pg-us", "postgres://new"); err != nil {
		t.Fatalf("SetURL: %v", err)
	}
	sources, _ := sdb.ListSources()
	if sources[0].SourceURL != "postgres://new" || sources[0].UpdatedAt != 1_800_000_000 {
		t.Errorf("row = %+v", sources[0])
	}
}

func TestUpdateCheck(t *testing.T) {
	sdb := tempSourceDB(t)
	mustSeed(t, sdb, &fakeAdapter{id: "fb", datasetID: "d", url: "https://x", country: "us"})

	if err := sdb.UpdateCheck("fb", 404, "not found"); err != nil {
		t.Fatalf("UpdateCheck: %v", err)
	}
	src := lastStatuses(t, sdb)["fb"]
	if src.LastCheck == nil || *src.LastStatus != 404 || src.LastError == nil || *src.LastError != "not found" {
		t.Fatalf("after failure = %+v", src)
	}

	if err := sdb.UpdateCheck("fb", 200, ""); err != nil {
		t.Fatalf("UpdateCheck: %v", err)
	}
	src = lastStatuses(t, sdb)["fb"]
	if *src.LastStatus != 200 || src.LastError != nil {
		t.Errorf("success should clear last_error, got %+v", src)
	}
}

func TestRecordImport(t *testing.T) {
	sdb := tempSourceDB(t)
	sdb.now = func() time.Time { return time.Unix(1_750_000_000, 0) }
	mustSeed(t, sdb, &fakeAdapter{id: "fb-us", datasetID: "us-bls", url: "https://x", country: "us"})

	if err := sdb.RecordImport("fb-us", 812); err != nil {
		t.Fatalf("RecordImport: %v", err)
	}
	src := lastStatuses(t, sdb)["fb-us"]
	if src.LastRecords == nil || *src.LastRecords != 812 || src.LastImport == nil || *src.LastImport != 1_750_000_000 {
		t.Errorf("row = %+v", src)
	}
}
