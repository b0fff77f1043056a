package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/iburimskiy/floating-particles/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(Config)
}

// NewWatcher watches path. onChange receives every successfully parsed
// version; files that fail to load are logged and skipped.
func NewWatcher(log *zap.Logger, path string, debounce time.Duration, onChange func(Config)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		log:      logger.OrNop(log),
		watcher:  w,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Start watches the file's directory, since editors often replace the file
// rather than write it in place. It returns once the watch is registered.
func (cw *Watcher) Start(ctx context.Context) error {
	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(cw.path), err)
	}
	cw.log.Info("watching config", zap.String("path", cw.path))

	debounceTimer := time.NewTimer(time.Hour)
	debounceTimer.Stop()

	go func() {
		defer debounceTimer.Stop()
		for {
			select {
			case event, ok := <-cw.watcher.Events:
				if !ok {
					return
				}
				if cw.shouldProcessEvent(event) {
					cw.log.Debug("config change detected",
						zap.String("file", event.Name),
						zap.String("op", event.Op.String()))
					debounceTimer.Reset(cw.debounce)
				}

			case err, ok := <-cw.watcher.Errors:
				if !ok {
					return
				}
				cw.log.Error("watcher error", zap.Error(err))

			case <-debounceTimer.C:
				cw.reload()

			case <-ctx.Done():
				cw.log.Info("stopping config watcher")
				return
			}
		}
	}()
	return nil
}

// Stop closes the underlying watcher.
func (cw *Watcher) Stop() error {
	return cw.watcher.Close()
}

func (cw *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(event.Name) == cw.path
}

func (cw *Watcher) reload() {
	cfg, err := Load(cw.path)
	if err != nil {
		cw.log.Warn("config reload failed", zap.String("path", cw.path), zap.Error(err))
		return
	}
	cw.log.Info("config reloaded",
		zap.Int("count", cfg.Particles.Count),
		zap.String("color", cfg.Particles.Color),
		zap.Bool("connections", cfg.Particles.Connections))
	cw.onChange(cfg)
}
