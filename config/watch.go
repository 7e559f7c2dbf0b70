package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// settled marks the end of a burst of events for one file. seq identifies
// the timer so that a superseded timer firing late is ignored.
type settled struct {
	name string
	seq  int
}

// Watcher reports changes to map, config and script files in the watched
// directories. A burst of events for one file is reported once, 100ms after
// the last of them.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once

	// only touched by the goroutine calling NewWatcher and Add
	dirs map[string]bool
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		dirs:    make(map[string]bool, len(dirs)),
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	go watcher.run()
	return watcher, nil
}

// Add starts watching dir. Directories already watched are ignored.
func (w *Watcher) Add(dir string) error {
	if dir == "" {
		dir = "."
	}
	dir = filepath.Clean(dir)
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	fire := make(chan settled)
	timers := make(map[string]*time.Timer)
	seqs := make(map[string]int)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !IsWatchedFile(event.Name) {
				continue
			}
			if t, ok := timers[event.Name]; ok {
				t.Stop()
			}
			seqs[event.Name]++
			s := settled{name: event.Name, seq: seqs[event.Name]}
			timers[event.Name] = time.AfterFunc(debounce, func() {
				select {
				case fire <- s:
				case <-w.closeCh:
				}
			})
		case s := <-fire:
			if seqs[s.name] != s.seq {
				continue
			}
			delete(timers, s.name)
			select {
			case w.Events <- s.name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// IsWatchedFile reports whether path has an extension the viewer reloads on.
func IsWatchedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".tmj", ".tsj", ".yaml", ".yml", ".tengo", ".png":
		return true
	}
	return false
}
