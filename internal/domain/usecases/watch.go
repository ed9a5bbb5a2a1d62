package usecases

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

// WatchUseCase keeps the clause cache in step with a policy directory.
type WatchUseCase struct {
	ingest     *IngestUseCase
	watcher    ports.FileWatcher
	extensions map[string]bool
	logger     logging.Logger
}

// NewWatchUseCase creates a WatchUseCase for files with the given extensions.
func NewWatchUseCase(ingest *IngestUseCase, watcher ports.FileWatcher, extensions []string, logger logging.Logger) *WatchUseCase {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &WatchUseCase{
		ingest:     ingest,
		watcher:    watcher,
		extensions: exts,
		logger:     logger.Named("watch"),
	}
}

// Prime segments every matching document already in dir and returns how
// many succeeded. Individual failures are logged and skipped.
func (uc *WatchUseCase) Prime(ctx context.Context, dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !uc.matches(path) {
			return nil
		}
		if _, err := uc.ingest.Ingest(ctx, path); err != nil {
			uc.logger.Warn("initial segmentation failed", logging.String("path", path), logging.Err(err))
			return nil
		}
		n++
		return nil
	})
	return n, err
}

// Run applies file events until ctx ends or the watcher closes its channel.
func (uc *WatchUseCase) Run(ctx context.Context, dir string) error {
	events, err := uc.watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}
	uc.logger.Info("watching policy directory", logging.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			uc.Apply(ctx, ev)
		}
	}
}

// Apply re-segments created or modified documents and evicts deleted ones.
func (uc *WatchUseCase) Apply(ctx context.Context, ev ports.FileEvent) {
	if !uc.matches(ev.Path) {
		return
	}
	log := uc.logger.With(logging.String("path", ev.Path), logging.String("op", ev.Operation.String()))

	switch ev.Operation {
	case ports.FileCreated, ports.FileModified:
		if _, err := uc.ingest.Ingest(ctx, ev.Path); err != nil {
			log.Warn("re-segmentation failed", logging.Err(err))
		}
	case ports.FileDeleted:
		if err := uc.ingest.Evict(ctx, ev.Path); err != nil {
			log.Warn("eviction failed", logging.Err(err))
			return
		}
		log.Info("document evicted")
	}
}

func (uc *WatchUseCase) matches(path string) bool {
	if len(uc.extensions) == 0 {
		return true
	}
	return uc.extensions[strings.ToLower(filepath.Ext(path))]
}
