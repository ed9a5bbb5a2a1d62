// Package filewatcher watches the policy directory so cached clauses follow
// the documents on disk.
package filewatcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

// DefaultExtensions are the policy formats watched when none are configured.
var DefaultExtensions = []string{".pdf", ".txt", ".md"}

// FSNotifyWatcher implements ports.FileWatcher using fsnotify.
type FSNotifyWatcher struct {
	watcher    *fsnotify.Watcher
	extensions []string // lower-cased, with leading dot
	logger     logging.Logger
}

// NewFSNotifyWatcher creates a new file watcher.
func NewFSNotifyWatcher(extensions []string, logger logging.Logger) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	normalized := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		normalized = append(normalized, e)
	}

	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &FSNotifyWatcher{
		watcher:    w,
		extensions: normalized,
		logger:     logger.Named("watcher"),
	}, nil
}

// Watch starts monitoring the directory tree and emits events. A rename is
// reported as a delete of the old name; the new name arrives as a create.
// Directories created later are watched too, and the documents already in
// them are reported as created.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	if _, err := w.addTree(dir); err != nil {
		return nil, err
	}

	events := make(chan ports.FileEvent, 100)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create == fsnotify.Create && isDir(event.Name) {
					found, err := w.addTree(event.Name)
					if err != nil {
						w.logger.Warn("watch subdirectory failed", logging.String("dir", event.Name), logging.Err(err))
					}
					for _, path := range found {
						select {
						case events <- ports.FileEvent{Path: path, Operation: ports.FileCreated}:
						case <-ctx.Done():
							return
						}
					}
					continue
				}
				if !w.IsWatched(event.Name) {
					continue
				}

				var op ports.FileOperation
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					op = ports.FileCreated
				case event.Op&fsnotify.Write == fsnotify.Write:
					op = ports.FileModified
				case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					op = ports.FileDeleted
				default:
					continue
				}

				select {
				case events <- ports.FileEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", logging.String("dir", dir), logging.Err(err))
			}
		}
	}()

	return events, nil
}

// addTree watches root and every directory below it, returning the watched
// documents it came across.
func (w *FSNotifyWatcher) addTree(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		if w.IsWatched(path) {
			found = append(found, path)
		}
		return nil
	})
	return found, err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}

// IsWatched reports whether path has a watched extension.
func (w *FSNotifyWatcher) IsWatched(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
