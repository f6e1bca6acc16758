// CLAUDE:SUMMARY Import adapter reading salary rows for one country from PostgreSQL through a pgx pool and snapshotting them as gob.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hazyhaar/salary-registry/pkg/salary"
)

// DefaultSalaryTable is queried when PostgresAdapter.Table is empty.
const DefaultSalaryTable = "salaries"

// PostgresAdapter exports the rows of one country from a salaries table.
// The table needs the columns occupation, country, state, location,
// currency, average_salary, min_salary, max_salary and hourly_rate.
type PostgresAdapter struct {
	Name        string
	Dataset     string
	CountryCode string
	Desc        string
	DSN         string
	Table       string
	LicenseName string
	Logger      *slog.Logger
}

func (a *PostgresAdapter) ID() string          { return a.Name }
func (a *PostgresAdapter) DatasetID() string   { return a.Dataset }
func (a *PostgresAdapter) Country() string     { return strings.ToLower(a.CountryCode) }
func (a *PostgresAdapter) Description() string { return a.Desc }
func (a *PostgresAdapter) DefaultURL() string  { return a.DSN }
func (a *PostgresAdapter) License() string     { return a.LicenseName }

func (a *PostgresAdapter) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// connect opens a pgx pool and pings it.
func connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// selectQuery builds the export statement with a sanitized table name.
func selectQuery(table string) string {
	if table == "" {
		table = DefaultSalaryTable
	}
	ident := pgx.Identifier(strings.Split(table, "."))
	return `SELECT occupation,
		COALESCE(state, ''), COALESCE(location, ''), COALESCE(currency, ''),
		COALESCE(average_salary, 0)::float8, COALESCE(min_salary, 0)::float8,
		COALESCE(max_salary, 0)::float8, COALESCE(hourly_rate, 0)::float8
		FROM ` + ident.Sanitize() + `
		WHERE lower(country) = $1 AND occupation IS NOT NULL AND occupation <> ''
		ORDER BY occupation, state, location`
}

// querier is the subset of *pgxpool.Pool used for the export.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchRecords(ctx context.Context, q querier, table, country string) ([]salary.Record, error) {
	rows, err := q.Query(ctx, selectQuery(table), country)
	if err != nil {
		return nil, fmt.Errorf("query salaries: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (salary.Record, error) {
		r := salary.Record{Country: country}
		err := row.Scan(&r.Occupation, &r.State, &r.Location, &r.Currency,
			&r.AverageSalary, &r.MinSalary, &r.MaxSalary, &r.HourlyRate)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan salaries: %w", err)
	}
	return records, nil
}

func (a *PostgresAdapter) Import(ctx context.Context, sourceURL, outputDir string) error {
	if sourceURL == "" {
		return fmt.Errorf("postgres %s: empty dsn", a.Name)
	}
	pool, err := connect(ctx, sourceURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	records, err := fetchRecords(ctx, pool, a.Table, a.Country())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("postgres %s: no rows for country %q", a.Name, a.Country())
	}
	for i := range records {
		records[i].FillDerived()
	}

	dictDir := filepath.Join(outputDir, a.Dataset)
	if err := ensureDir(dictDir); err != nil {
		return err
	}
	if err := salary.SaveGob(records, filepath.Join(dictDir, "data.gob")); err != nil {
		return err
	}
	// The gob is authoritative; drop any CSV left from another source.
	if err := os.Remove(filepath.Join(dictDir, "data.csv")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale csv: %w", err)
	}

	table := a.Table
	if table == "" {
		table = DefaultSalaryTable
	}
	n, err := publish(dictDir, &salary.Manifest{
		ID:       a.Dataset,
		Version:  time.Now().Format("2006-01"),
		Country:  a.Country(),
		Source:   "postgres:" + table,
		License:  a.LicenseName,
		DataFile: "data.gob",
	})
	if err != nil {
		return err
	}
	a.logger().Info("dataset imported", "adapter", a.Name, "dataset", a.Dataset, "records", n)
	return nil
}
