package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ReloadDebounce is the quiet window applied to file events before a reload
// is announced. Editors tend to write in bursts (truncate, write, rename).
const ReloadDebounce = 300 * time.Millisecond

// FileWatcher observes one file and invokes a callback, debounced, when it
// changes. The parent directory is watched rather than the file itself so
// atomic rename-over-write is still seen.
type FileWatcher struct {
	path string
	fw   *fsnotify.Watcher
	deb  *Debouncer
	done chan struct{}
}

// WatchFile starts watching path and calls onChange after each debounced
// burst of modifications.
func WatchFile(path string, onChange func()) (*FileWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &FileWatcher{
		path: path,
		fw:   fw,
		deb:  NewDebouncer(ReloadDebounce, onChange),
		done: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *FileWatcher) loop() {
	target := filepath.Clean(w.path)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.deb.Trigger()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logrus.WithError(err).Debug("store watcher error")
		case <-w.done:
			return
		}
	}
}

// Close stops watching and drops any pending reload.
func (w *FileWatcher) Close() error {
	close(w.done)
	w.deb.Cancel()
	return w.fw.Close()
}
