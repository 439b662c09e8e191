package fileview

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher follows one directory with fsnotify. Removals are reported to the
// Registry as deletes; creations and writes trigger a debounced onChange.
// Callbacks run through the Scheduler on the UI goroutine.
type Watcher struct {
	reg      *Registry
	sched    Scheduler
	onChange func()

	fsWatcher *fsnotify.Watcher

	mu       sync.Mutex
	dir      string
	debounce *time.Timer
	closed   bool
	done     chan struct{}
}

func NewWatcher(reg *Registry, sched Scheduler, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		reg:       reg,
		sched:     sched,
		onChange:  onChange,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch replaces the watched directory with dir.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		_ = w.fsWatcher.Remove(w.dir)
	}
	w.dir = ""
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	w.dir = dir
	log().Debug("watching directory", "dir", dir)
	return nil
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	err := w.fsWatcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log().Warn("fsnotify watcher error", "err", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || filepath.Dir(event.Name) != w.dir {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// fsnotify does not report where a renamed file went; a rename into
		// the directory arrives as a Create.
		path := event.Name
		w.sched.Idle(func() {
			if fd := w.reg.Lookup(path); fd != nil {
				w.reg.Delete(fd)
			}
		})

	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.debounce = time.AfterFunc(watchDebounce, func() {
			w.mu.Lock()
			closed := w.closed
			w.mu.Unlock()
			if closed {
				return
			}
			w.sched.Idle(w.onChange)
		})
	}
}
