package assets

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow absorbs the write-event bursts editors produce when saving.
const debounceWindow = 200 * time.Millisecond

// Watch runs an initial compression pass and then recompresses whenever a
// source file in the data directory changes. onPass receives the outcome of
// every pass. The loop blocks until the watcher fails; it is meant for
// interactive UI development, where the process is stopped with Ctrl-C.
func Watch(opts Options, onPass func(*Result)) error {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	res, err := Compress(opts)
	if err != nil {
		return err
	}
	onPass(res)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(opts.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", opts.Dir, err)
	}
	log.Info("watching for changes", "dir", opts.Dir)

	var pending bool
	var timer <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Our own .gz artifacts also land in the watched directory.
			if strings.HasSuffix(event.Name, ".gz") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !pending {
				pending = true
				timer = time.After(debounceWindow)
			}

		case <-timer:
			pending = false
			timer = nil
			res, err := Compress(opts)
			if err != nil {
				// A half-written file can briefly fail to read; report and
				// keep watching.
				log.Warn("compression pass failed", "error", err)
				continue
			}
			onPass(res)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}
