package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch checks the named file, passes the outcome to report, and checks
// it again each time the file is written or recreated. It returns nil
// when ctx is done.
//
// The file's directory is watched rather than the file, so editors that
// save by renaming a new file into place are followed.
func Watch(ctx context.Context, path string, opts Options, report func([]Result, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	log := opts.logger()
	log.Debug("watching", "path", path, "dir", dir)

	report(CheckFile(ctx, path, opts))

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			report(CheckFile(ctx, path, opts))

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
}
