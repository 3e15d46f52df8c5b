package system

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// schemeWatcher watches the directory holding the scheme file, so editors
// that replace the file by rename are still observed.
type schemeWatcher struct {
	watcher *fsnotify.Watcher
	path    string

	debounce time.Duration
	current  func() bool
	onChange func(dark bool)

	mu        sync.Mutex
	last      bool
	timer     *time.Timer
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

func newSchemeWatcher(path string, debounce time.Duration, current func() bool, onChange func(dark bool)) (*schemeWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return &schemeWatcher{
		watcher:  watcher,
		path:     path,
		debounce: debounce,
		current:  current,
		onChange: onChange,
		last:     current(),
		done:     make(chan struct{}),
	}, nil
}

func (sw *schemeWatcher) run() {
	defer close(sw.done)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if sw.isSchemeEvent(event) {
				sw.schedule()
			}
		case _, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching; a transient error does not end the session.
		}
	}
}

func (sw *schemeWatcher) isSchemeEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != sw.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (sw *schemeWatcher) schedule() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.closed {
		return
	}
	if sw.timer == nil {
		sw.timer = time.AfterFunc(sw.debounce, sw.fire)
	} else {
		sw.timer.Reset(sw.debounce)
	}
}

// fire reports only transitions of the effective preference.
func (sw *schemeWatcher) fire() {
	dark := sw.current()

	sw.mu.Lock()
	if sw.closed {
		sw.mu.Unlock()
		return
	}
	sw.timer = nil
	changed := dark != sw.last
	sw.last = dark
	sw.mu.Unlock()

	if changed {
		sw.onChange(dark)
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (sw *schemeWatcher) Close() error {
	var err error
	sw.closeOnce.Do(func() {
		sw.mu.Lock()
		sw.closed = true
		if sw.timer != nil {
			sw.timer.Stop()
			sw.timer = nil
		}
		sw.mu.Unlock()
		err = sw.watcher.Close()
		<-sw.done
	})
	return err
}
