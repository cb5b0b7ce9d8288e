package toml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/smux/internal/logging"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Subscribe signals after the providers file changed on disk. The directory
// is watched rather than the file because writes replace it by rename.
// Bursts are collapsed into one signal; the channel closes when ctx ends.
func (s *ProviderStore) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	dir := filepath.Dir(s.providersPath)
	if err := os.MkdirAll(dir, providersDirMode); err != nil {
		return nil, fmt.Errorf("create providers directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create providers watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch providers directory: %w", err)
	}

	changes := make(chan struct{}, 1)
	log := logging.FromContext(ctx)

	go func() {
		var (
			mu     sync.Mutex
			timer  *time.Timer
			closed bool
		)

		defer func() {
			mu.Lock()
			closed = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			_ = watcher.Close()
			close(changes)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.providersPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() {
					mu.Lock()
					defer mu.Unlock()

					if closed {
						return
					}
					select {
					case changes <- struct{}{}:
					default:
					}
				})
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("path", s.providersPath).Msg("providers watcher error")
			}
		}
	}()

	return changes, nil
}
