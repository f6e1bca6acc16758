package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/salary-registry/pkg/category"
	"github.com/hazyhaar/salary-registry/pkg/importer"
	"github.com/hazyhaar/salary-registry/pkg/salary"
)

type config struct {
	Addr          string         `yaml:"addr"`
	DatasetsDir   string         `yaml:"datasets_dir"`
	SourcesDB     string         `yaml:"sources_db"`
	LogLevel      string         `yaml:"log_level"`
	CheckInterval time.Duration  `yaml:"check_interval"`
	TLS           tlsConfig      `yaml:"tls"`
	RateLimit     rateConfig     `yaml:"rate_limit"`
	RedisURL      string         `yaml:"redis_url"`
	Sources       []sourceConfig `yaml:"sources"`
}

// rateConfig caps API requests per second. Zero RPS disables the limiter.
type rateConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// tlsConfig enables TLS on TCP and HTTP/3 on UDP. Empty cert paths mean a
// self-signed development certificate.
type tlsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// sourceConfig declares one import source. Type is "filebrowser" or
// "postgres".
type sourceConfig struct {
	ID          string            `yaml:"id"`
	Type        string            `yaml:"type"`
	Dataset     string            `yaml:"dataset"`
	Country     string            `yaml:"country"`
	Description string            `yaml:"description"`
	License     string            `yaml:"license"`
	BaseURL     string            `yaml:"base_url"`
	Path        string            `yaml:"path"`
	Token       string            `yaml:"token"`
	DSN         string            `yaml:"dsn"`
	Table       string            `yaml:"table"`
	Format      salary.FormatSpec `yaml:"format"`
	Columns     salary.ColumnSpec `yaml:"columns"`
}

// loadDotEnv loads ./.env when present. A malformed file is logged and
// skipped; a missing one is silent.
func loadDotEnv(logger *slog.Logger) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("ignoring .env", "error", err)
	}
}

func defaultConfig() config {
	return config{
		Addr:        ":8421",
		DatasetsDir: "datasets",
		LogLevel:    "info",
	}
}

// loadConfig reads .env, then the YAML file at path (optional), then
// environment overrides.
func loadConfig(path string, logger *slog.Logger) (config, error) {
	loadDotEnv(logger)

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Info("no config file, using defaults", "path", path)
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Addr = getEnv("SALARY_ADDR", cfg.Addr)
	cfg.DatasetsDir = getEnv("SALARY_DATASETS_DIR", cfg.DatasetsDir)
	cfg.LogLevel = getEnv("SALARY_LOG_LEVEL", cfg.LogLevel)
	cfg.RedisURL = getEnv("SALARY_REDIS_URL", cfg.RedisURL)
	cfg.TLS.CertFile = getEnv("SALARY_TLS_CERT", cfg.TLS.CertFile)
	cfg.TLS.KeyFile = getEnv("SALARY_TLS_KEY", cfg.TLS.KeyFile)
	if cfg.SourcesDB == "" {
		cfg.SourcesDB = filepath.Join(cfg.DatasetsDir, "sources.db")
	}
	for i := range cfg.Sources {
		s := &cfg.Sources[i]
		switch s.Type {
		case "filebrowser":
			s.Token = getEnv("FILEBROWSER_TOKEN", s.Token)
		case "postgres":
			if s.DSN == "" {
				s.DSN = os.Getenv("DATABASE_URL")
			}
		}
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit: rps and burst must not be negative")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return fmt.Errorf("tls: cert_file and key_file must be set together")
	}
	seen := make(map[string]bool)
	for i, s := range c.Sources {
		if s.ID == "" || s.Dataset == "" || s.Country == "" {
			return fmt.Errorf("source %d: id, dataset and country are required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("source %s: duplicate id", s.ID)
		}
		seen[s.ID] = true
		switch s.Type {
		case "filebrowser":
			if s.BaseURL == "" || s.Path == "" {
				return fmt.Errorf("source %s: filebrowser needs base_url and path", s.ID)
			}
		case "postgres":
		default:
			return fmt.Errorf("source %s: unknown type %q", s.ID, s.Type)
		}
	}
	return nil
}

func (c config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// classifier builds the category classifier, backed by Redis when
// redis_url is set. The returned func releases the Redis client.
func (c config) classifier(logger *slog.Logger) (*category.Classifier, func(), error) {
	if c.RedisURL == "" {
		return category.New(category.WithLogger(logger)), func() {}, nil
	}
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis_url: %w", err)
	}
	client := redis.NewClient(opts)
	cache := category.NewRedisCache(client, "", logger)
	logger.Info("category cache: redis", "addr", opts.Addr, "db", opts.DB)
	return category.New(category.WithCache(cache), category.WithLogger(logger)), func() { client.Close() }, nil
}

// adapters builds one importer adapter per configured source.
func (c config) adapters(logger *slog.Logger) []importer.Adapter {
	out := make([]importer.Adapter, 0, len(c.Sources))
	for _, s := range c.Sources {
		switch s.Type {
		case "filebrowser":
			out = append(out, &importer.FilebrowserAdapter{
				Name:        s.ID,
				Dataset:     s.Dataset,
				CountryCode: s.Country,
				Desc:        s.Description,
				BaseURL:     s.BaseURL,
				Path:        s.Path,
				Token:       s.Token,
				LicenseName: s.License,
				Format:      s.Format,
				Columns:     s.Columns,
				Logger:      logger,
			})
		case "postgres":
			out = append(out, &importer.PostgresAdapter{
				Name:        s.ID,
				Dataset:     s.Dataset,
				CountryCode: s.Country,
				Desc:        s.Description,
				DSN:         s.DSN,
				Table:       s.Table,
				LicenseName: s.License,
				Logger:      logger,
			})
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
