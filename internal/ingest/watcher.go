package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures drop-folder watching.
type WatchOptions struct {
	Dirs        []string // directories to watch, recursively
	InitialScan bool     // emit files already present under Dirs
	Debounce    time.Duration
	Logger      *slog.Logger
}

// Watch emits paths of document files created or written under the
// configured directories until ctx is cancelled. Newly created
// subdirectories are picked up; rapid write bursts for the same file
// are coalesced by Debounce. Both channels close on shutdown.
func Watch(ctx context.Context, opts WatchOptions) (<-chan string, <-chan error, error) {
	if len(opts.Dirs) == 0 {
		return nil, nil, errors.New("no watch directories provided")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	pathCh := make(chan string, 256)
	errCh := make(chan error, 1)

	emit := func(path string) {
		select {
		case pathCh <- path:
		default:
			logger.Warn("watch channel full; dropping path", "path", path)
		}
	}

	addTree := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if opts.InitialScan && AllowedExt(filepath.Ext(path)) {
				emit(path)
			}
			return nil
		})
	}

	for _, dir := range opts.Dirs {
		if err := addTree(dir); err != nil {
			closeErr := w.Close()
			if closeErr != nil {
				logger.Warn("failed to close watcher", "error", closeErr)
			}
			return nil, nil, err
		}
	}

	go func() {
		defer close(pathCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("failed to close watcher", "error", err)
			}
		}()

		// The debounce timer only signals the loop; all state stays on
		// this goroutine.
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		flushCh := make(chan struct{}, 1)
		pending := map[string]struct{}{}
		flush := func() {
			for p := range pending {
				emit(p)
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-flushCh:
				flush()
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Create) {
					// New directories need their own watch; Add on a
					// plain file fails harmlessly.
					if err := w.Add(ev.Name); err != nil {
						logger.Debug("watch add skipped", "path", ev.Name, "error", err)
					}
				}
				if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) {
					continue
				}
				if !AllowedExt(filepath.Ext(ev.Name)) {
					continue
				}
				pending[ev.Name] = struct{}{}
				if opts.Debounce <= 0 {
					flush()
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(opts.Debounce, func() {
					select {
					case flushCh <- struct{}{}:
					default:
					}
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watch error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return pathCh, errCh, nil
}
