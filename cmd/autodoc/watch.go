package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"autodoc/internal/config"
)

// debounceWindow collapses editor save bursts into one run.
const debounceWindow = 500 * time.Millisecond

// watchLoop runs the workflow once, then re-runs it on every write to the
// watched file until the context is cancelled. The parent directory is
// watched rather than the file itself so editors that replace the file on
// save keep triggering events.
func watchLoop(ctx context.Context, cfg *config.Config, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	if err := runOnce(ctx, cfg, path); err != nil {
		logger.Error("workflow run failed", zap.Error(err))
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case <-timerC:
			timerC = nil
			timer = nil
			logger.Info("file changed, re-running workflow", zap.String("path", path))
			if err := runOnce(ctx, cfg, path); err != nil {
				logger.Error("workflow run failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
