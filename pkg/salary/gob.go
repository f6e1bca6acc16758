// CLAUDE:SUMMARY Gob snapshot of salary records, preferred over CSV at load time.
package salary

import (
	"encoding/gob"
	"fmt"
	"os"
)

func (d *Dataset) loadGob(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&d.Records); err != nil {
		return fmt.Errorf("decode gob: %w", err)
	}
	for i := range d.Records {
		if d.Records[i].Country == "" {
			d.Records[i].Country = d.Manifest.Country
		}
	}
	return nil
}

// SaveGob writes records to path as a gob snapshot.
func SaveGob(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(records); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}
