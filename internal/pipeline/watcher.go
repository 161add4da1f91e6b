package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// matchExtension is the input extension the pipeline reacts to.
const matchExtension = ".xml"

// isCandidate reports whether a path looks like an input file by extension.
func isCandidate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), matchExtension)
}

// watchInput feeds live filesystem events into enqueue. Create events and
// rename-into-directory events both surface new files; each observation is
// debounced by settle to let the writer finish before the file is claimed.
//
// The watcher is a convenience path only: the periodic poll re-scans the
// directory, so a missed event delays a file by at most one poll interval.
func watchInput(ctx context.Context, dir string, settle time.Duration, enqueue func(string), log zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
					continue
				}
				if !isCandidate(ev.Name) {
					continue
				}
				log.Debug().
					Str("file", ev.Name).
					Str("op", ev.Op.String()).
					Msg("Watch event")
				path := ev.Name
				time.AfterFunc(settle, func() {
					if ctx.Err() == nil {
						enqueue(path)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Watcher error")
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
