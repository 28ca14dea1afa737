package extension

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/interactions-toolbox/toolbox/internal/logging"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher re-scans a namespace whenever packages appear, change or vanish.
// It is the explicit re-scan step that makes freshly installed extensions
// visible.
type Watcher struct {
	ns        *Namespace
	onChange  func([]*Record, error)
	ready     chan struct{}
	readyOnce sync.Once

	// Debounce is how long the directory must stay quiet before a re-scan.
	Debounce time.Duration
}

// NewWatcher returns a watcher that calls onChange with the result of every
// re-scan.
func NewWatcher(ns *Namespace, onChange func([]*Record, error)) *Watcher {
	return &Watcher{
		ns:       ns,
		onChange: onChange,
		ready:    make(chan struct{}),
		Debounce: defaultDebounce,
	}
}

// Ready is closed once the namespace directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. The namespace directory must exist. Run may
// be called again after it returns; Ready stays closed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.ns.Dir); err != nil {
		return fmt.Errorf("watching namespace %s: %w", w.ns.Dir, err)
	}
	// Package directories are watched too so a manifest written after its
	// directory was created still triggers a re-scan.
	entries, err := os.ReadDir(w.ns.Dir)
	if err != nil {
		return fmt.Errorf("reading namespace %s: %w", w.ns.Dir, err)
	}
	for _, entry := range entries {
		if w.ns.isDir(entry) {
			_ = fw.Add(w.ns.Path(entry.Name()))
		}
	}
	w.readyOnce.Do(func() { close(w.ready) })

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = fw.Add(ev.Name)
				}
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				fire = time.After(debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching namespace %s: %w", w.ns.Dir, err)

		case <-fire:
			fire = nil
			records, err := w.ns.List(ctx)
			if err != nil {
				logging.Warn().
					Add(logging.Component("watcher")).
					Add(logging.ErrorField(err)).
					Msg("namespace re-scan failed")
			}
			w.onChange(records, err)
		}
	}
}
