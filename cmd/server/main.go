package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/salary-registry/pkg/api"
	"github.com/hazyhaar/salary-registry/pkg/category"
	"github.com/hazyhaar/salary-registry/pkg/chassis"
	"github.com/hazyhaar/salary-registry/pkg/importer"
	"github.com/hazyhaar/salary-registry/pkg/kit"
	"github.com/hazyhaar/salary-registry/pkg/salary"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "classify":
		cmdClassify(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: salary-registry <command>

Commands:
  serve      Start the HTTP API and the MCP endpoint at /mcp
  mcp        Serve MCP over stdio
  import     List or run dataset imports
  classify   Classify job titles given as arguments
`)
}

// setup loads the config and the datasets shared by serve and mcp.
func setup(cfgPath string) (config, *slog.Logger, *salary.Registry) {
	boot := newLogger(slog.LevelInfo)
	cfg, err := loadConfig(cfgPath, boot)
	if err != nil {
		boot.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.level())
	slog.SetDefault(logger)

	reg := salary.NewRegistry(cfg.DatasetsDir)
	if err := reg.Load(); err != nil {
		logger.Error("failed to load datasets", "error", err)
		os.Exit(1)
	}
	logger.Info("datasets loaded", "count", reg.DatasetCount(), "records", reg.TotalRecords())
	return cfg, logger, reg
}

func mustClassifier(cfg config, logger *slog.Logger) (*category.Classifier, func()) {
	cl, closeFn, err := cfg.classifier(logger)
	if err != nil {
		logger.Error("classifier setup", "error", err)
		os.Exit(1)
	}
	return cl, closeFn
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg, logger, reg := setup(*cfgPath)
	cl, closeCache := mustClassifier(cfg, logger)
	defer closeCache()

	mcpSrv := api.NewMCPServer(version, reg, cl, logger)
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv,
		server.WithHTTPContextFunc(func(ctx context.Context, _ *http.Request) context.Context {
			return kit.WithTransport(ctx, kit.TransportMCPHTTP)
		}),
	)

	srv, err := chassis.New(chassis.Config{
		Addr: cfg.Addr,
		Handler: api.NewRouter(api.Config{
			Catalog:    reg,
			Classifier: cl,
			Logger:     logger,
			MCP:        mcpHTTP,
			RateLimit:  cfg.RateLimit.RPS,
			RateBurst:  cfg.RateLimit.Burst,
		}),
		HTTP3:    cfg.TLS.Enabled,
		CertFile: cfg.TLS.CertFile,
		KeyFile:  cfg.TLS.KeyFile,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("chassis setup", "error", err)
		os.Exit(1)
	}
	if err := srv.Listen(); err != nil {
		logger.Error("listen", "error", err)
		os.Exit(1)
	}

	// SIGHUP: hot reload datasets.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading datasets")
			if err := reg.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				logger.Info("datasets reloaded", "count", reg.DatasetCount(), "records", reg.TotalRecords())
			}
		}
	}()

	if cfg.CheckInterval > 0 && len(cfg.Sources) > 0 {
		sdb, err := openSources(cfg, logger)
		if err != nil {
			logger.Error("source checker disabled", "error", err)
		} else {
			defer sdb.Close()
			go importer.NewChecker(sdb, logger, cfg.CheckInterval).Start(ctx)
		}
	}

	logger.Info("salary-registry listening", "addr", srv.Addr().String(), "version", version)
	if err := srv.Serve(ctx); err != nil {
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mcpHTTP.Shutdown(shutdownCtx); err != nil {
		logger.Warn("mcp shutdown", "error", err)
	}
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("chassis shutdown", "error", err)
	}
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	// Logs go to stderr; stdout carries the protocol.
	cfg, logger, reg := setup(*cfgPath)
	cl, closeCache := mustClassifier(cfg, logger)
	defer closeCache()
	mcpSrv := api.NewMCPServer(version, reg, cl, logger)

	err := server.ServeStdio(mcpSrv, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return kit.WithTransport(ctx, kit.TransportMCPStdio)
	}))
	if err != nil {
		logger.Error("mcp stdio", "error", err)
		os.Exit(1)
	}
}
