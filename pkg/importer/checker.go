package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// authenticator is implemented by adapters whose source needs credentials
// on every request, probes included.
type authenticator interface {
	AuthHeader() http.Header
}

// CheckReport summarizes one availability pass.
type CheckReport struct {
	OK      int
	Failed  int
	Skipped int
}

// Checker probes every HTTP source with HEAD on a fixed interval and stores
// the outcome in the SourceDB. Database sources are never contacted.
type Checker struct {
	sources     *SourceDB
	logger      *slog.Logger
	interval    time.Duration
	client      *http.Client
	concurrency int
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithHTTPClient replaces the probe client.
func WithHTTPClient(c *http.Client) CheckerOption {
	return func(ch *Checker) { ch.client = c }
}

// WithConcurrency bounds parallel probes (default 4).
func WithConcurrency(n int) CheckerOption {
	return func(ch *Checker) {
		if n > 0 {
			ch.concurrency = n
		}
	}
}

func NewChecker(sources *SourceDB, logger *slog.Logger, interval time.Duration, opts ...CheckerOption) *Checker {
	c := &Checker{
		sources:     sources,
		logger:      logger,
		interval:    interval,
		concurrency: 4,
		client: &http.Client{
			Timeout: 30 * time.Second,
			// A redirect is an answer; the source is reachable.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start checks immediately, then every interval until ctx is done.
func (c *Checker) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		c.CheckAll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type probeResult struct {
	adapterID string
	url       string
	status    int
	err       error
}

// CheckAll probes every HTTP source once and persists each status.
func (c *Checker) CheckAll(ctx context.Context) CheckReport {
	var report CheckReport
	sources, err := c.sources.ListSources()
	if err != nil {
		c.logger.Error("source check: list sources", "error", err)
		return report
	}

	var targets []Source
	for _, src := range sources {
		if isHTTP(src.SourceURL) {
			targets = append(targets, src)
		} else {
			report.Skipped++
		}
	}
	if len(targets) == 0 {
		return report
	}

	results := make([]probeResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, src := range targets {
		g.Go(func() error {
			status, err := c.probe(gctx, src)
			results[i] = probeResult{adapterID: src.AdapterID, url: src.SourceURL, status: status, err: err}
			return nil
		})
	}
	g.Wait()
	if ctx.Err() != nil {
		return report
	}

	// SQLite writes stay on this goroutine.
	for _, r := range results {
		msg := ""
		if r.err != nil {
			msg = r.err.Error()
		}
		if err := c.sources.UpdateCheck(r.adapterID, r.status, msg); err != nil {
			c.logger.Error("source check: update", "adapter", r.adapterID, "error", err)
		}
		if r.status >= 200 && r.status < 400 {
			report.OK++
			continue
		}
		report.Failed++
		c.logger.Warn("source unreachable", "adapter", r.adapterID, "url", r.url, "status", r.status, "error", msg)
	}

	c.logger.Info("source check complete", "ok", report.OK, "failed", report.Failed, "skipped", report.Skipped)
	return report
}

// probe returns the HEAD status of src, 0 on transport failure.
func (c *Checker) probe(ctx context.Context, src Source) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src.SourceURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if a, err := Get(src.AdapterID); err == nil {
		if auth, ok := a.(authenticator); ok {
			for k, v := range auth.AuthHeader() {
				req.Header[k] = v
			}
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", src.SourceURL, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func isHTTP(u string) bool {
	l := strings.ToLower(strings.TrimSpace(u))
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
