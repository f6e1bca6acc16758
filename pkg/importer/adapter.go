package importer

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Adapter defines a salary data source that downloads or queries records and
// writes them as a dataset directory the salary registry can load.
type Adapter interface {
	// ID returns the unique identifier of this adapter (e.g. "filebrowser-us").
	ID() string
	// DatasetID returns the target dataset ID (e.g. "us-bls").
	DatasetID() string
	// Country returns the lower-case country code the dataset covers.
	Country() string
	Description() string
	// DefaultURL returns the source location used for seeding the database.
	DefaultURL() string
	License() string
	// Import fetches the source at sourceURL and writes the dataset into
	// outputDir/DatasetID().
	Import(ctx context.Context, sourceURL, outputDir string) error
}

// Process-wide adapter set, filled from config at startup.
var (
	mu       sync.RWMutex
	registry = map[string]Adapter{}
)

// Register adds a, replacing any adapter with the same ID.
func Register(a Adapter) {
	mu.Lock()
	registry[a.ID()] = a
	mu.Unlock()
}

func Get(id string) (Adapter, error) {
	mu.RLock()
	a, ok := registry[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return a, nil
}

// All returns the registered adapters ordered by ID.
func All() []Adapter {
	mu.RLock()
	out := slices.Collect(maps.Values(registry))
	mu.RUnlock()
	slices.SortFunc(out, func(a, b Adapter) int { return cmp.Compare(a.ID(), b.ID()) })
	return out
}
