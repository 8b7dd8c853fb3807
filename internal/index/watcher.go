package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the vault root and feeds definition
// folder changes into the controller until ctx is cancelled.
//
// Create and write events are coalesced through the controller's debounced
// reload so a burst of saves produces one rebuild. Delete events evict the
// file's entries immediately. Rename events fire on the OLD path only, so
// the old entries are evicted at once and a debounced reload picks up the
// new path if it landed back in scope; a file renamed out of the definition
// folder is therefore evicted without reinsertion.
//
// New directories created at runtime are added to the watch list; a
// directory renamed or removed inside the definition folder (or above it)
// triggers a debounced reload, since its files emit no events of their own.
func Watch(ctx context.Context, ctrl *Controller, vaultRoot string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}

	logger.Info("watcher: started",
		slog.String("root", vaultRoot),
		slog.String("folder", ctrl.Folder()))

	for {
		select {
		case <-ctx.Done():
			ctrl.Close()
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					// A directory moved into scope may carry definition
					// files; let the debounced reload pick them up.
					ctrl.ScheduleReload()
					continue
				}
			}

			if !strings.HasSuffix(absPath, ".md") {
				// Renaming or removing a directory emits a single event on
				// the directory path; definitions cached from files under it
				// must not linger until an unrelated event.
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					if rel, relErr := filepath.Rel(vaultRoot, absPath); relErr == nil {
						rel = filepath.ToSlash(rel)
						folder := ctrl.Folder()
						if ctrl.InScope(rel) || strings.HasPrefix(folder+"/", rel+"/") {
							logger.Debug("watcher: directory change queued", slog.String("path", rel))
							ctrl.ScheduleReload()
						}
					}
				}
				continue
			}

			rel, relErr := filepath.Rel(vaultRoot, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			if !ctrl.InScope(rel) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				logger.Debug("watcher: change queued", slog.String("path", rel))
				ctrl.ScheduleReload()

			case ev.Op&fsnotify.Remove != 0:
				ctrl.Evict(rel)

			case ev.Op&fsnotify.Rename != 0:
				ctrl.Evict(rel)
				ctrl.ScheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
