// Package watch re-solves the selected model whenever the preset file
// changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/logging"
)

// DefaultDebounce absorbs the burst of events an editor produces for one
// save.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc receives the configuration rebuilt from the preset file. An
// error is logged and does not stop the watch.
type ReloadFunc func(ctx context.Context, cfg config.AppConfig) error

// Watcher follows one preset file.
type Watcher struct {
	path     string
	cfg      config.AppConfig
	builtin  *config.Catalog
	onReload ReloadFunc
	logger   logging.Logger
	debounce time.Duration
}

// New prepares a watcher on cfg.PresetFile. builtin is the catalog the file
// is merged into on every reload; nil means the built-in presets.
func New(cfg config.AppConfig, builtin *config.Catalog, onReload ReloadFunc, logger logging.Logger) (*Watcher, error) {
	if cfg.PresetFile == "" {
		return nil, errors.New("no preset file to watch")
	}
	path, err := filepath.Abs(cfg.PresetFile)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.PresetFile, err)
	}
	if builtin == nil {
		builtin = config.DefaultCatalog()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Watcher{
		path:     path,
		cfg:      cfg,
		builtin:  builtin,
		onReload: onReload,
		logger:   logger,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce changes the quiet period before a reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run calls the reload function once with the current configuration, then
// again after every settled change of the file, until ctx is cancelled.
// The directory is watched rather than the file so that editors replacing
// the file by rename are followed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.logger.Error("closing watcher", cerr)
		}
	}()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching preset file", logging.String("path", w.path))

	w.reload(ctx, w.cfg)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				w.logger.Debug("preset file changed", logging.String("op", event.Op.String()))
				timer.Reset(w.debounce)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				w.logger.Warn("preset file removed, waiting for it to reappear", logging.String("path", w.path))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", err)

		case <-timer.C:
			cfg, err := w.load()
			if err != nil {
				w.logger.Error("reloading presets", err, logging.String("path", w.path))
				continue
			}
			w.cfg = cfg
			w.reload(ctx, cfg)
		}
	}
}

// load merges the file into a copy of the built-in catalog and validates the
// configuration against it.
func (w *Watcher) load() (config.AppConfig, error) {
	catalog := w.builtin.Clone()
	if err := catalog.MergeFile(w.path); err != nil {
		return config.AppConfig{}, err
	}
	cfg := w.cfg
	cfg.Catalog = catalog
	if err := cfg.Validate(); err != nil {
		return config.AppConfig{}, err
	}
	return cfg, nil
}

func (w *Watcher) reload(ctx context.Context, cfg config.AppConfig) {
	if w.onReload == nil {
		return
	}
	if err := w.onReload(ctx, cfg); err != nil {
		w.logger.Error("solve after reload failed", err)
	}
}
