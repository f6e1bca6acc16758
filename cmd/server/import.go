// CLAUDE:SUMMARY CLI subcommand that lists configured salary sources and imports one or all of them into the datasets directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/salary-registry/pkg/importer"
	"github.com/hazyhaar/salary-registry/pkg/salary"
)

// openSources registers the configured adapters and opens the seeded
// sources database.
func openSources(cfg config, logger *slog.Logger) (*importer.SourceDB, error) {
	for _, a := range cfg.adapters(logger) {
		importer.Register(a)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SourcesDB), 0o755); err != nil {
		return nil, fmt.Errorf("create sources dir: %w", err)
	}
	sdb, err := importer.OpenSourceDB(cfg.SourcesDB)
	if err != nil {
		return nil, err
	}
	if err := sdb.Seed(importer.All()); err != nil {
		sdb.Close()
		return nil, err
	}
	return sdb, nil
}

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	source := fs.String("source", "", "source ID to import")
	all := fs.Bool("all", false, "import all configured sources")
	setURL := fs.String("set-url", "", "override the stored URL of --source")
	fs.Parse(args)

	logger := newLogger(slog.LevelInfo)
	cfg, err := loadConfig(*cfgPath, logger)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	sdb, err := openSources(cfg, logger)
	if err != nil {
		logger.Error("open sources", "error", err)
		os.Exit(1)
	}
	defer sdb.Close()

	if *setURL != "" {
		if *source == "" {
			logger.Error("--set-url requires --source")
			os.Exit(1)
		}
		if err := sdb.SetURL(*source, *setURL); err != nil {
			logger.Error("set url", "error", err)
			os.Exit(1)
		}
		logger.Info("source url updated", "source", *source)
		return
	}

	if !*all && *source == "" {
		listSources(os.Stdout, sdb)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	targets := importer.All()
	if !*all {
		a, err := importer.Get(*source)
		if err != nil {
			logger.Error("import", "error", err)
			listSources(os.Stderr, sdb)
			os.Exit(1)
		}
		targets = []importer.Adapter{a}
	}

	failed := 0
	for _, a := range targets {
		if err := runImport(ctx, sdb, a, cfg.DatasetsDir); err != nil {
			logger.Error("import failed", "source", a.ID(), "error", err)
			failed++
			continue
		}
		logger.Info("import done", "source", a.ID(), "dir", filepath.Join(cfg.DatasetsDir, a.DatasetID()))
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func runImport(ctx context.Context, sdb *importer.SourceDB, a importer.Adapter, outputDir string) error {
	url, err := sdb.GetURL(a.ID())
	if err != nil {
		return err
	}
	if err := a.Import(ctx, url, outputDir); err != nil {
		return err
	}
	ds, err := salary.LoadDataset(filepath.Join(outputDir, a.DatasetID()))
	if err != nil {
		return fmt.Errorf("verify import: %w", err)
	}
	return sdb.RecordImport(a.ID(), len(ds.Records))
}

func listSources(w io.Writer, sdb *importer.SourceDB) {
	sources, err := sdb.ListSources()
	if err != nil {
		fmt.Fprintf(w, "list sources: %v\n", err)
		return
	}
	if len(sources) == 0 {
		fmt.Fprintln(w, "No sources configured. Add a sources: section to config.yaml.")
		return
	}
	fmt.Fprintln(w, "Available sources:")
	fmt.Fprintln(w)
	for _, src := range sources {
		status := ""
		if src.LastStatus != nil {
			status = fmt.Sprintf("  [%d]", *src.LastStatus)
		}
		if src.LastRecords != nil {
			status += fmt.Sprintf("  %d records", *src.LastRecords)
		}
		fmt.Fprintf(w, "  %-25s  %-3s  %s  (-> %s)%s\n", src.AdapterID, src.Country, src.Description, src.DatasetID, status)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  salary-registry import --source <id> [--config <file>]")
	fmt.Fprintln(w, "  salary-registry import --all [--config <file>]")
}
