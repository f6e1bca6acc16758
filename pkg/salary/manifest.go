// CLAUDE:SUMMARY Dataset manifest YAML schema: source metadata, CSV format spec and column mapping for salary records.
package salary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes a salary dataset: where it came from and how to read it.
type Manifest struct {
	ID        string     `yaml:"id" json:"id"`
	Version   string     `yaml:"version" json:"version"`
	Country   string     `yaml:"country" json:"country"`
	Source    string     `yaml:"source" json:"source"`
	SourceURL string     `yaml:"source_url,omitempty" json:"source_url,omitempty"`
	License   string     `yaml:"license" json:"license"`
	DataFile  string     `yaml:"data_file" json:"data_file"`
	Format    FormatSpec `yaml:"format" json:"-"`
	Columns   ColumnSpec `yaml:"columns" json:"-"`
}

// FormatSpec describes the CSV layout.
type FormatSpec struct {
	Delimiter string `yaml:"delimiter,omitempty"`
	Encoding  string `yaml:"encoding,omitempty"`
	HasHeader bool   `yaml:"has_header"`
	Currency  string `yaml:"currency,omitempty"`
}

// ColumnSpec maps record fields to CSV header names. Without a header the
// columns are read by position in field order.
type ColumnSpec struct {
	Occupation    string `yaml:"occupation,omitempty"`
	State         string `yaml:"state,omitempty"`
	Location      string `yaml:"location,omitempty"`
	AverageSalary string `yaml:"average_salary,omitempty"`
	MinSalary     string `yaml:"min_salary,omitempty"`
	MaxSalary     string `yaml:"max_salary,omitempty"`
	HourlyRate    string `yaml:"hourly_rate,omitempty"`
}

func (c *ColumnSpec) applyDefaults() {
	def := func(v *string, name string) {
		if *v == "" {
			*v = name
		}
	}
	def(&c.Occupation, "occupation")
	def(&c.State, "state")
	def(&c.Location, "location")
	def(&c.AverageSalary, "average_salary")
	def(&c.MinSalary, "min_salary")
	def(&c.MaxSalary, "max_salary")
	def(&c.HourlyRate, "hourly_rate")
}

// ordered lists the column names in positional order.
func (c ColumnSpec) ordered() []string {
	return []string{c.Occupation, c.State, c.Location, c.AverageSalary, c.MinSalary, c.MaxSalary, c.HourlyRate}
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	m.Country = strings.ToLower(strings.TrimSpace(m.Country))
	if m.Country == "" {
		return nil, fmt.Errorf("manifest %s: missing country", path)
	}
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	m.Columns.applyDefaults()
	return &m, nil
}

// WriteManifest writes m as YAML to dir/manifest.yaml.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}
