package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/five82/phonecat/internal/catalog"
	"github.com/five82/phonecat/internal/config"
	"github.com/five82/phonecat/internal/prefs"
	"github.com/five82/phonecat/internal/query"
	"github.com/five82/phonecat/internal/state"
	"github.com/five82/phonecat/internal/ui"
)

// Options configure the phonecat application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/phonecat/prefs.toml
	APIURL     string // overrides api_url when set
	LogFile    string // overrides log_file when set; "-" disables logging
}

// Run boots the phonecat TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	logger, closer, err := openLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("load prefs failed, using defaults", "path", prefsPath, "error", err)
	}

	client, err := catalog.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}
	client.SetLogger(logger)

	store := state.NewStore(catalog.ListQuery(0, cfg.PageSize), logger)
	dispatcher := query.NewDispatcher(client, store, cfg.PageSize)

	logger.Info("phonecat starting",
		"api_url", cfg.APIURL,
		"page_size", cfg.PageSize,
		"timeout", cfg.RequestTimeout.String())

	err = ui.Run(ui.Options{
		Context:      ctx,
		Dispatcher:   dispatcher,
		Store:        store,
		Logger:       logger,
		QuickFilters: cfg.QuickFilters,
		LogFile:      cfg.LogFile,
		APIURL:       cfg.APIURL,
		Prefs:        userPrefs,
		PrefsPath:    prefsPath,
	})
	dispatcher.Cancel()
	logger.Info("phonecat stopped")
	return err
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	switch opts.LogFile {
	case "":
	case "-":
		cfg.LogFile = ""
	default:
		cfg.LogFile = opts.LogFile
	}
}

// openLogger returns a text logger writing to path. An empty path discards
// everything. The terminal belongs to the TUI, so nothing goes to stderr.
func openLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(handler), file, nil
}
