package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/card-inspector-go/internal/logger"
)

// DefaultSettleDelay is how long a file must stay unchanged before it is reported
const DefaultSettleDelay = 500 * time.Millisecond

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// IsImagePath reports whether path has a decodable image extension
func IsImagePath(path string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(path)))
}

// DirWatcher reports image files dropped into a directory once writes to them settle
type DirWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dir     string
	settle  time.Duration
	pending map[string]time.Time
}

// NewDirWatcher starts watching dir. settle <= 0 uses DefaultSettleDelay.
func NewDirWatcher(dir string, settle time.Duration) (*DirWatcher, error) {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &DirWatcher{
		watcher: watcher,
		dir:     dir,
		settle:  settle,
		pending: make(map[string]time.Time),
	}, nil
}

// Run blocks until ctx is done, calling handle once per settled image file.
// handle runs on the watcher goroutine, in path order within one tick.
func (w *DirWatcher) Run(ctx context.Context, handle func(path string)) error {
	ticker := time.NewTicker(max(w.settle/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.record(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).WithField("dir", w.dir).Warn("Directory watch error")

		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				handle(path)
			}
		}
	}
}

// Close stops the underlying watcher
func (w *DirWatcher) Close() error {
	return w.watcher.Close()
}

func (w *DirWatcher) record(event fsnotify.Event) {
	if !IsImagePath(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.pending[event.Name] = time.Now()
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(w.pending, event.Name)
	default:
		return
	}

	logger.WithFields(logrus.Fields{
		"path": event.Name,
		"op":   event.Op.String(),
	}).Debug("Image file event")
}

func (w *DirWatcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(ready)
	return ready
}
