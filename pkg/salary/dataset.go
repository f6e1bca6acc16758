package salary

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Dataset is one loaded salary dataset with its manifest.
type Dataset struct {
	Manifest *Manifest `json:"manifest"`
	Records  []Record  `json:"-"`
}

// LoadDataset reads dir/manifest.yaml and the records it points to.
// A data.gob snapshot takes priority over the CSV data file.
func LoadDataset(dir string) (*Dataset, error) {
	manifest, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}
	d := &Dataset{Manifest: manifest}

	gobPath := filepath.Join(dir, "data.gob")
	if _, err := os.Stat(gobPath); err == nil {
		if err := d.loadGob(gobPath); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", manifest.ID, err)
		}
		return d, nil
	}

	if err := d.loadCSV(filepath.Join(dir, manifest.DataFile)); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", manifest.ID, err)
	}
	return d, nil
}

func (d *Dataset) loadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if enc := d.Manifest.Format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if delim := d.Manifest.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	cols := d.Manifest.Columns.ordered()
	idx := make([]int, len(cols))
	for i := range idx {
		idx[i] = i
	}
	if d.Manifest.Format.HasHeader {
		header, err := r.Read()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		pos := make(map[string]int, len(header))
		for i, h := range header {
			pos[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
		}
		for i, name := range cols {
			p, ok := pos[strings.ToLower(name)]
			if !ok {
				p = -1
			}
			idx[i] = p
		}
		if idx[0] < 0 {
			return fmt.Errorf("occupation column %q not found in header %v", cols[0], header)
		}
	}

	cell := func(row []string, field int) string {
		i := idx[field]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	amount := func(row []string, field int, bad *int) float64 {
		raw := cell(row, field)
		if raw == "" {
			return 0
		}
		v, ok := ParseAmount(raw)
		if !ok {
			*bad++
		}
		return v
	}

	seen := make(map[string]struct{})
	var duplicates, skipped, unparsed int
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		rec := Record{
			Occupation: cell(row, 0),
			Country:    d.Manifest.Country,
			State:      cell(row, 1),
			Location:   cell(row, 2),
			Currency:   d.Manifest.Format.Currency,
		}
		if rec.Occupation == "" {
			skipped++
			continue
		}
		rec.AverageSalary = amount(row, 3, &unparsed)
		rec.MinSalary = amount(row, 4, &unparsed)
		rec.MaxSalary = amount(row, 5, &unparsed)
		rec.HourlyRate = amount(row, 6, &unparsed)
		rec.FillDerived()

		if _, dup := seen[rec.Key()]; dup {
			duplicates++
		}
		seen[rec.Key()] = struct{}{}
		d.Records = append(d.Records, rec)
	}

	if duplicates > 0 || skipped > 0 || unparsed > 0 {
		slog.Warn("dataset rows coerced",
			"dataset", d.Manifest.ID,
			"duplicates", duplicates,
			"skipped", skipped,
			"unparsed_amounts", unparsed)
	}
	return nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
