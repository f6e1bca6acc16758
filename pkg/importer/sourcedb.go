package importer

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrUnknownSource is returned for an adapter ID with no import_sources row.
var ErrUnknownSource = errors.New("unknown import source")

// Source is one import_sources row. Nil pointers mean "never happened".
type Source struct {
	AdapterID   string
	DatasetID   string
	Country     string
	Description string
	SourceURL   string
	License     string
	LastCheck   *int64
	LastStatus  *int
	LastError   *string
	LastImport  *int64
	LastRecords *int
	UpdatedAt   int64
}

// SourceDB persists source URLs, probe results and import results in SQLite.
type SourceDB struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSourceDB opens or creates the database at path and applies pending
// migrations.
func OpenSourceDB(path string) (*SourceDB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open source db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SourceDB{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("source db migrations: %w", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("migrate source db: %w", err)
	}
	return nil
}

func (s *SourceDB) Close() error {
	return s.db.Close()
}

// Seed inserts a row per adapter in one transaction. Existing rows win, so a
// URL changed with SetURL survives restarts.
func (s *SourceDB) Seed(adapters []Adapter) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	now := s.now().Unix()
	for _, a := range adapters {
		_, err := tx.Exec(`INSERT INTO import_sources
			(adapter_id, dataset_id, country, description, source_url, license, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(adapter_id) DO NOTHING`,
			a.ID(), a.DatasetID(), a.Country(), a.Description(), a.DefaultURL(), a.License(), now)
		if err != nil {
			return fmt.Errorf("seed %s: %w", a.ID(), err)
		}
	}
	return tx.Commit()
}

// GetURL returns the stored source URL of adapterID.
func (s *SourceDB) GetURL(adapterID string) (string, error) {
	var url string
	err := s.db.QueryRow(`SELECT source_url FROM import_sources WHERE adapter_id = ?`, adapterID).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, adapterID)
	}
	if err != nil {
		return "", fmt.Errorf("get url for %s: %w", adapterID, err)
	}
	return url, nil
}

// SetURL overrides the source URL of adapterID.
func (s *SourceDB) SetURL(adapterID, url string) error {
	return s.update(adapterID, "source_url = ?, updated_at = ?", url, s.now().Unix())
}

// UpdateCheck stores a probe result. An empty checkErr clears last_error.
func (s *SourceDB) UpdateCheck(adapterID string, status int, checkErr string) error {
	var msg sql.NullString
	if checkErr != "" {
		msg = sql.NullString{String: checkErr, Valid: true}
	}
	return s.update(adapterID, "last_check = ?, last_status = ?, last_error = ?", s.now().Unix(), status, msg)
}

// RecordImport stores the time and record count of a successful import.
func (s *SourceDB) RecordImport(adapterID string, records int) error {
	return s.update(adapterID, "last_import = ?, last_records = ?", s.now().Unix(), records)
}

func (s *SourceDB) update(adapterID, set string, args ...any) error {
	res, err := s.db.Exec(`UPDATE import_sources SET `+set+` WHERE adapter_id = ?`, append(args, adapterID)...)
	if err != nil {
		return fmt.Errorf("update %s: %w", adapterID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSource, adapterID)
	}
	return nil
}

// ListSources returns every row ordered by adapter ID.
func (s *SourceDB) ListSources() ([]Source, error) {
	rows, err := s.db.Query(`SELECT adapter_id, dataset_id, country, description, source_url, license,
		last_check, last_status, last_error, last_import, last_records, updated_at
		FROM import_sources ORDER BY adapter_id`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var src Source
		err := rows.Scan(&src.AdapterID, &src.DatasetID, &src.Country, &src.Description, &src.SourceURL, &src.License,
			&src.LastCheck, &src.LastStatus, &src.LastError, &src.LastImport, &src.LastRecords, &src.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, src)
	}
	return out, rows.Err()
}
