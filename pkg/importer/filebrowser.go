// CLAUDE:SUMMARY Import adapter pulling a salary CSV (or a ZIP holding one) from a Filebrowser instance's raw download API.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/salary-registry/pkg/salary"
)

// FilebrowserAdapter downloads a dataset file through GET {base}/api/raw/{path},
// authenticating with the X-Auth token header.
type FilebrowserAdapter struct {
	Name        string
	Dataset     string
	CountryCode string
	Desc        string
	BaseURL     string
	Path        string
	Token       string
	LicenseName string
	Format      salary.FormatSpec
	Columns     salary.ColumnSpec
	Logger      *slog.Logger
}

func (a *FilebrowserAdapter) ID() string          { return a.Name }
func (a *FilebrowserAdapter) DatasetID() string   { return a.Dataset }
func (a *FilebrowserAdapter) Country() string     { return strings.ToLower(a.CountryCode) }
func (a *FilebrowserAdapter) Description() string { return a.Desc }
func (a *FilebrowserAdapter) License() string     { return a.LicenseName }

// DefaultURL is the raw download URL of Path on BaseURL.
func (a *FilebrowserAdapter) DefaultURL() string {
	u, err := url.JoinPath(a.BaseURL, "api", "raw", strings.TrimLeft(a.Path, "/"))
	if err != nil {
		return ""
	}
	return u
}

func (a *FilebrowserAdapter) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// AuthHeader carries the X-Auth token; the checker uses it too.
func (a *FilebrowserAdapter) AuthHeader() http.Header {
	h := http.Header{}
	if a.Token != "" {
		h.Set("X-Auth", a.Token)
	}
	return h
}

func (a *FilebrowserAdapter) Import(ctx context.Context, sourceURL, outputDir string) error {
	if sourceURL == "" {
		return fmt.Errorf("filebrowser %s: empty source url", a.Name)
	}
	dlDir := filepath.Join(outputDir, "_download", a.Dataset)
	if err := ensureDir(dlDir); err != nil {
		return err
	}
	defer os.RemoveAll(dlDir)

	header := a.AuthHeader()

	name := filepath.Base(a.Path)
	if name == "." || name == "/" || name == "" {
		name = "download.csv"
	}
	raw := filepath.Join(dlDir, name)
	a.logger().Info("downloading dataset", "adapter", a.Name, "path", a.Path)
	if err := downloadFile(ctx, sourceURL, raw, header); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	csvPath := raw
	if strings.EqualFold(filepath.Ext(raw), ".zip") {
		csvPath = filepath.Join(dlDir, "extracted.csv")
		if err := extractCSV(raw, csvPath); err != nil {
			return fmt.Errorf("unzip %s: %w", name, err)
		}
	}

	dataDir := filepath.Join(outputDir, a.Dataset)
	if err := ensureDir(dataDir); err != nil {
		return err
	}
	// A stale snapshot would shadow the fresh CSV.
	if err := os.Remove(filepath.Join(dataDir, "data.gob")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale snapshot: %w", err)
	}
	if err := os.Rename(csvPath, filepath.Join(dataDir, "data.csv")); err != nil {
		return fmt.Errorf("move data file: %w", err)
	}

	n, err := publish(dataDir, &salary.Manifest{
		ID:        a.Dataset,
		Version:   time.Now().Format("2006-01"),
		Country:   a.Country(),
		Source:    "filebrowser",
		SourceURL: sourceURL,
		License:   a.LicenseName,
		DataFile:  "data.csv",
		Format:    a.Format,
		Columns:   a.Columns,
	})
	if err != nil {
		return err
	}
	a.logger().Info("dataset imported", "adapter", a.Name, "dataset", a.Dataset, "records", n)
	return nil
}
