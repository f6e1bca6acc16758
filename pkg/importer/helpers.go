// CLAUDE:SUMMARY Shared import utilities: retrying authenticated HTTP download to a temp file, CSV extraction from ZIP archives, dataset publishing.
package importer

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/salary-registry/pkg/salary"
)

// retryBase is the first backoff delay; it doubles on every retry.
var retryBase = time.Second

// errPermanent marks a download failure that retrying cannot fix.
var errPermanent = errors.New("permanent failure")

type downloader struct {
	client   *http.Client
	attempts int
	header   http.Header
}

// downloadFile fetches url into dest, sending header on every attempt. Up to
// three attempts with exponential backoff; 4xx other than 429 stops at once.
// dest only appears once the body is complete.
func downloadFile(ctx context.Context, url, dest string, header http.Header) error {
	d := downloader{client: &http.Client{Timeout: 10 * time.Minute}, attempts: 3, header: header}
	return d.fetch(ctx, url, dest)
}

func (d downloader) fetch(ctx context.Context, url, dest string) error {
	var err error
	for attempt := range d.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBase << (attempt - 1)):
			}
		}
		if err = d.once(ctx, url, dest); err == nil || errors.Is(err, errPermanent) || ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}

func (d downloader) once(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", errPermanent, err)
	}
	for k, vs := range d.header {
		req.Header[k] = append([]string(nil), vs...)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	default:
		return fmt.Errorf("%w: HTTP %d", errPermanent, resp.StatusCode)
	}

	part := dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("%w: %v", errPermanent, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(part)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(part)
		return err
	}
	return os.Rename(part, dest)
}

// extractCSV copies the first .csv entry of the ZIP archive src to dest.
func extractCSV(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()

		out, err := os.Create(dest)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
		return out.Close()
	}
	return errors.New("archive holds no csv file")
}

// publish writes the manifest into dir, checks the dataset loads and
// reports its record count. dir must already hold the data file.
func publish(dir string, m *salary.Manifest) (int, error) {
	if err := salary.WriteManifest(dir, m); err != nil {
		return 0, err
	}
	d, err := salary.LoadDataset(dir)
	if err != nil {
		return 0, fmt.Errorf("validate dataset: %w", err)
	}
	return len(d.Records), nil
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
