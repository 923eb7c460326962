package formio

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/gitrdm/formscope/internal/logging"
)

// Watch monitors dir for form-definition changes and calls onChange
// with the changed file's path. It runs a single fsnotify.Watcher and
// one goroutine forwarding events until ctx is done, logging (rather
// than propagating) watcher errors since a single bad event should
// not abort the whole watch session.
func Watch(ctx context.Context, dir string, onChange func(path string)) error {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := notify.Add(dir); err != nil {
		notify.Close()
		return err
	}

	log := logging.FromContext(ctx)
	go func() {
		defer notify.Close()
		for {
			select {
			case <-ctx.Done():
				log.Debug("watch: context done, stopping")
				return
			case event, ok := <-notify.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange(event.Name)
				}
			case err, ok := <-notify.Errors:
				if !ok {
					return
				}
				log.Warnw("watch: fsnotify error", "error", err)
			}
		}
	}()
	return nil
}
