// CLAUDE:SUMMARY Hot-reloadable registry of salary datasets grouped by country, serving fuzzy occupation search and related-occupation lookups.
package salary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/hazyhaar/salary-registry/pkg/match"
)

// ErrUnknownCountry is returned when no dataset covers the requested country.
var ErrUnknownCountry = errors.New("unknown country")

// Categorizer maps an occupation title to a category label.
type Categorizer interface {
	CategoryOf(title string) string
}

// Registry holds all loaded datasets and serves search queries per country.
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	pools    map[string][]Record
	dir      string
}

// NewRegistry creates an empty registry reading datasets from dir.
func NewRegistry(dir string) *Registry {
	return &Registry{
		datasets: make(map[string]*Dataset),
		pools:    make(map[string][]Record),
		dir:      dir,
	}
}

// Load scans the directory and loads every dataset. The previous state is
// kept if any dataset fails to load.
func (r *Registry) Load() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("read datasets dir %s: %w", r.dir, err)
	}

	datasets := make(map[string]*Dataset)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.dir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
			continue
		}
		d, err := LoadDataset(dir)
		if err != nil {
			return fmt.Errorf("load dataset %s: %w", entry.Name(), err)
		}
		if _, dup := datasets[d.Manifest.ID]; dup {
			return fmt.Errorf("load dataset %s: duplicate id %q", entry.Name(), d.Manifest.ID)
		}
		datasets[d.Manifest.ID] = d
	}

	// Pools concatenate datasets in ID order so ranking ties are stable
	// across reloads.
	ids := make([]string, 0, len(datasets))
	for id := range datasets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	pools := make(map[string][]Record)
	for _, id := range ids {
		d := datasets[id]
		pools[d.Manifest.Country] = append(pools[d.Manifest.Country], d.Records...)
	}

	r.mu.Lock()
	r.datasets = datasets
	r.pools = pools
	r.mu.Unlock()
	return nil
}

// Reload reloads all datasets from disk.
func (r *Registry) Reload() error {
	return r.Load()
}

// CountryInfo summarizes the data available for one country.
type CountryInfo struct {
	Country  string   `json:"country"`
	Datasets []string `json:"datasets"`
	Records  int      `json:"records"`
}

// Countries lists the covered countries sorted by code.
func (r *Registry) Countries() []CountryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byCountry := make(map[string]*CountryInfo)
	for _, d := range r.datasets {
		c := d.Manifest.Country
		info, ok := byCountry[c]
		if !ok {
			info = &CountryInfo{Country: c}
			byCountry[c] = info
		}
		info.Datasets = append(info.Datasets, d.Manifest.ID)
		info.Records += len(d.Records)
	}
	out := make([]CountryInfo, 0, len(byCountry))
	for _, info := range byCountry {
		sort.Strings(info.Datasets)
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

// Manifests returns the manifests of all loaded datasets sorted by ID.
func (r *Registry) Manifests() []Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Manifest, 0, len(r.datasets))
	for _, d := range r.datasets {
		out = append(out, *d.Manifest)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Pool returns the candidate records for country. The slice is shared and
// must not be modified.
func (r *Registry) Pool(country string) ([]Record, error) {
	key := strings.ToLower(strings.TrimSpace(country))
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool, ok := r.pools[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}
	return pool, nil
}

// Search ranks the country's occupations against query. A limit <= 0
// returns every match.
func (r *Registry) Search(country, query string, limit int) ([]match.Result[Record], error) {
	pool, err := r.Pool(country)
	if err != nil {
		return nil, err
	}
	res := match.RankScored(query, pool)
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// Best returns the single best occupation for query.
func (r *Registry) Best(country, query string) (Record, bool, error) {
	pool, err := r.Pool(country)
	if err != nil {
		return Record{}, false, err
	}
	rec, ok := match.PickBest(query, pool)
	return rec, ok, nil
}

// Related returns occupations in the same category as title, excluding
// title itself, highest average salary first. Each occupation appears once,
// represented by its best-paid record.
func (r *Registry) Related(country, title string, cat Categorizer, limit int) ([]Record, error) {
	pool, err := r.Pool(country)
	if err != nil {
		return nil, err
	}
	want := cat.CategoryOf(title)
	self := match.Normalize(title)

	best := make(map[string]int)
	var out []Record
	for _, rec := range pool {
		name := match.Normalize(rec.Occupation)
		if name == "" || name == self {
			continue
		}
		if i, ok := best[name]; ok {
			if rec.AverageSalary > out[i].AverageSalary {
				out[i] = rec
			}
			continue
		}
		if cat.CategoryOf(rec.Occupation) != want {
			continue
		}
		best[name] = len(out)
		out = append(out, rec)
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		switch {
		case a.AverageSalary > b.AverageSalary:
			return -1
		case a.AverageSalary < b.AverageSalary:
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DatasetCount returns the number of loaded datasets.
func (r *Registry) DatasetCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.datasets)
}

// TotalRecords returns the number of records across all datasets.
func (r *Registry) TotalRecords() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, d := range r.datasets {
		total += len(d.Records)
	}
	return total
}
