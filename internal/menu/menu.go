// SPDX-License-Identifier: MIT

// Package menu holds the shop knowledge base: a markdown file whose current
// text is injected into AI prompts. The file is hot-reloaded on change.
package menu

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/log"
)

// Store provides thread-safe access to the menu text with hot reloading.
type Store struct {
	mu      sync.RWMutex
	content string
	path    string
	logger  zerolog.Logger
}

// Load reads the menu file into a Store. A missing file is not fatal: the
// assistant still works, it just knows nothing about the menu.
func Load(path string) *Store {
	s := &Store{
		path:   path,
		logger: log.WithComponent("menu"),
	}
	if err := s.reload(); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("menu not loaded, continuing without knowledge base")
	}
	return s
}

// Content returns the current menu text. Empty when no file was loaded.
func (s *Store) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("menu: read %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.content = string(data)
	s.mu.Unlock()
	return nil
}

// Watch reloads the menu whenever the file changes, until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("menu: create watcher: %w", err)
	}
	if err := watcher.Add(s.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("menu: watch %s: %w", s.path, err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					if err := s.reload(); err != nil {
						s.logger.Warn().Err(err).Msg("menu reload failed, keeping previous content")
						continue
					}
					s.logger.Info().Str("event", "menu.reloaded").Str("path", s.path).Msg("menu reloaded")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn().Err(err).Msg("menu watcher error")
			}
		}
	}()
	return nil
}
