package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"reel/internal/engine"
	"reel/internal/logging"
	"reel/internal/operation"
)

// lockFileName guards a watched folder against concurrent watchers.
const lockFileName = ".reel.lock"

// Watcher processes files as they appear in a folder. Files already
// present when Watch starts are left alone.
type Watcher struct {
	Settle time.Duration
	Logger *slog.Logger
	Run    RunFunc
}

// Watch blocks until the context is cancelled. Each new file is given
// a settle window after its last write before being processed, so
// half-copied files are not picked up mid-transfer.
func (w *Watcher) Watch(ctx context.Context, op operation.Watch) error {
	info, err := os.Stat(op.Folder)
	if err != nil || !info.IsDir() {
		return engine.Wrap(engine.ErrEnvironment, "watch",
			op.Folder+" is not a watchable folder", err)
	}

	lock := flock.New(filepath.Join(op.Folder, lockFileName))
	held, err := lock.TryLock()
	if err != nil {
		return engine.Wrap(engine.ErrEnvironment, "watch", "acquire folder lock", err)
	}
	if !held {
		return engine.Wrap(engine.ErrEnvironment, "watch",
			"another watcher is already running on "+op.Folder, nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return engine.Wrap(engine.ErrEnvironment, "watch", "start filesystem watcher", err)
	}
	defer notifier.Close()
	if err := notifier.Add(op.Folder); err != nil {
		return engine.Wrap(engine.ErrEnvironment, "watch", "watch "+op.Folder, err)
	}

	logger := w.logger()
	logger.Info("watching folder",
		logging.String(logging.FieldInput, op.Folder),
		logging.String(logging.FieldVerb, op.Verb))

	settle := w.Settle
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}

	// Pending files and the time of their last observed write. A file is
	// ripe once its settle window passes without further writes.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !watchable(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
		case watchErr, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.Error(watchErr))
		case now := <-ticker.C:
			for file, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, file)
				w.process(ctx, op, file)
			}
		}
	}
}

func (w *Watcher) process(ctx context.Context, op operation.Watch, file string) {
	logger := w.logger()
	logger.Info("new file settled", logging.String(logging.FieldInput, file))
	if _, err := w.Run(ctx, op.Sentence(file)); err != nil {
		logger.Error("file failed",
			logging.String(logging.FieldInput, file),
			logging.Error(err))
	}
}

// watchable filters out lock files, hidden files and non-media
// extensions so editor temp files do not trigger conversions.
func watchable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".mp4", ".mov", ".mkv", ".avi", ".webm", ".gif",
		".mp3", ".wav", ".aac", ".flac", ".ogg", ".m4a":
		return true
	}
	return false
}

func (w *Watcher) logger() *slog.Logger {
	if w.Logger == nil {
		return logging.NewNop()
	}
	return logging.WithComponent(w.Logger, "watch")
}
