package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hazyhaar/salary-registry/pkg/category"
	"github.com/hazyhaar/salary-registry/pkg/salary"
)

func cmdClassify(args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print full category details as JSON")
	country := fs.String("country", "", "also show the best salary match in this country")
	dir := fs.String("datasets", "datasets", "datasets directory (with --country)")
	fs.Parse(args)

	titles := fs.Args()
	if len(titles) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: salary-registry classify [--json] [--country us] <title>...")
		os.Exit(1)
	}

	logger := newLogger(slog.LevelWarn)
	var reg *salary.Registry
	if *country != "" {
		reg = salary.NewRegistry(*dir)
		if err := reg.Load(); err != nil {
			logger.Error("failed to load datasets", "error", err)
			os.Exit(1)
		}
	}

	if err := classifyTitles(os.Stdout, category.New(category.WithLogger(logger)), reg, *country, titles, *asJSON); err != nil {
		logger.Error("classify", "error", err)
		os.Exit(1)
	}
}

type classifyLine struct {
	Title string `json:"title"`
	category.Info
	Match *salary.Record `json:"match,omitempty"`
}

// classifyTitles writes one line per title. reg may be nil.
func classifyTitles(w io.Writer, cl *category.Classifier, reg *salary.Registry, country string, titles []string, asJSON bool) error {
	lines := make([]classifyLine, 0, len(titles))
	for _, t := range titles {
		line := classifyLine{Title: t, Info: cl.Classify(t)}
		if reg != nil {
			rec, ok, err := reg.Best(country, t)
			if err != nil {
				return err
			}
			if ok {
				line.Match = &rec
			}
		}
		lines = append(lines, line)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range lines {
		cols := []string{l.Title, l.Category}
		if l.Match != nil {
			cols = append(cols, l.Match.Occupation, fmt.Sprintf("%.0f %s", l.Match.AverageSalary, l.Match.Currency))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}
