// CLAUDE:SUMMARY Ordered first-match-wins occupation classifier with an injectable memoization cache keyed by normalized title.
package category

import (
	"log/slog"
	"sync"
)

// Cache memoizes classifications by normalized title. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(key string) (Info, bool)
	Put(key string, info Info)
	Clear()
	Len() int
}

// MemoryCache is an unbounded map guarded by a RWMutex.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]Info
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]Info)}
}

func (c *MemoryCache) Get(key string) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *MemoryCache) Put(key string, info Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[key]; !ok {
		c.m[key] = info
	}
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]Info)
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Classifier assigns occupation titles to categories.
type Classifier struct {
	rules  []Rule
	cache  Cache
	logger *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) Option {
	return func(cl *Classifier) { cl.cache = c }
}

// WithRules replaces the default rule table. Order is preserved.
func WithRules(rules []Rule) Option {
	return func(cl *Classifier) { cl.rules = append([]Rule(nil), rules...) }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Classifier) { cl.logger = l }
}

// New creates a Classifier with DefaultRules and a MemoryCache unless
// overridden.
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, o := range opts {
		o(c)
	}
	if c.rules == nil {
		c.rules = DefaultRules()
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Classify returns the category of title. It never fails: blank or
// unmatched titles get the Professional fallback.
func (c *Classifier) Classify(title string) Info {
	t := ParseTitle(title)
	if t.Normalized == "" {
		return Fallback()
	}
	if info, ok := c.cache.Get(t.Normalized); ok {
		return info.clone()
	}

	info := fallbackInfo
	for _, r := range c.rules {
		if r.matches(t) {
			info = r.Info
			break
		}
	}
	c.cache.Put(t.Normalized, info.clone())
	c.logger.Debug("title classified", "title", t.Normalized, "category", info.Category)
	return info.clone()
}

// CategoryOf returns only the category label of title.
func (c *Classifier) CategoryOf(title string) string {
	return c.Classify(title).Category
}

// ClearCache drops every memoized classification.
func (c *Classifier) ClearCache() {
	c.cache.Clear()
}

// CacheLen returns the number of memoized titles.
func (c *Classifier) CacheLen() int {
	return c.cache.Len()
}

// Categories lists the category labels in rule order, fallback last.
func (c *Classifier) Categories() []string {
	out := make([]string, 0, len(c.rules)+1)
	seen := make(map[string]struct{}, len(c.rules)+1)
	for _, r := range c.rules {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	if _, ok := seen[FallbackCategory]; !ok {
		out = append(out, FallbackCategory)
	}
	return out
}
