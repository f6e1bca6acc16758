package salary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGobPreferredOverCSV(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "us-pg", `id: us-pg
country: us
source: postgres
`, "occupation\nIgnored Clerk\n")

	records := []Record{
		{Occupation: "Actuary", State: "NY", AverageSalary: 120000, HourlyRate: 57.69},
		{Occupation: "Welder", Country: "us", State: "TX", AverageSalary: 52000},
	}
	if err := SaveGob(records, filepath.Join(dir, "us-pg", "data.gob")); err != nil {
		t.Fatalf("SaveGob: %v", err)
	}

	d, err := LoadDataset(filepath.Join(dir, "us-pg"))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(d.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(d.Records))
	}
	if d.Records[0].Occupation != "Actuary" || d.Records[0].Country != "us" {
		t.Errorf("record 0 = %+v, want country filled from manifest", d.Records[0])
	}
}

func TestGobCorrupt(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "bad", "id: bad\ncountry: us\n", "")
	os.WriteFile(filepath.Join(dir, "bad", "data.gob"), []byte("not a gob"), 0o644)

	if _, err := LoadDataset(filepath.Join(dir, "bad")); err == nil {
		t.Error("corrupt gob should fail")
	}
}

func TestLoadManifest_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "m", "id: m\ncountry: \" DE \"\n", "")

	m, err := LoadManifest(filepath.Join(dir, "m", "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Country != "de" {
		t.Errorf("country = %q, want de", m.Country)
	}
	if m.DataFile != "data.csv" {
		t.Errorf("data_file = %q", m.DataFile)
	}
	if m.Columns.Occupation != "occupation" || m.Columns.AverageSalary != "average_salary" {
		t.Errorf("columns = %+v", m.Columns)
	}

	writeDataset(t, dir, "noid", "country: de\n", "")
	if _, err := LoadManifest(filepath.Join(dir, "noid", "manifest.yaml")); err == nil {
		t.Error("missing id should fail")
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	in := &Manifest{ID: "x", Country: "us", Source: "test", DataFile: "data.csv"}
	if err := WriteManifest(dir, in); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	out, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if out.ID != "x" || out.Country != "us" {
		t.Errorf("manifest = %+v", out)
	}
}

func TestLoadCSV_MissingOccupationColumn(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "d", "id: d\ncountry: us\nformat:\n  has_header: true\n", "title,salary\nNurse,1\n")
	if _, err := LoadDataset(filepath.Join(dir, "d")); err == nil {
		t.Error("missing occupation column should fail")
	}
}
