// Package watch rebuilds when source files change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor save bursts into one rebuild.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to files with a given extension below a root.
type Watcher struct {
	root     string
	ext      string
	debounce time.Duration
	w        *fsnotify.Watcher
}

// New watches every directory under root. Directories created later are
// added as they appear.
func New(root, ext string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw := &Watcher{root: root, ext: ext, debounce: debounce, w: w}
	if err := fw.addTree(root); err != nil {
		_ = w.Close()
		return nil, err
	}
	return fw, nil
}

func (fw *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.w.Add(path)
	})
}

func (fw *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Ext(ev.Name) == fw.ext
}

// Run calls fn once immediately and again after every burst of changes,
// until ctx is done. Errors from fn are passed to onErr and do not stop
// watching.
func (fw *Watcher) Run(ctx context.Context, fn func(ctx context.Context, changed []string) error, onErr func(error)) error {
	defer fw.w.Close()
	report := func(err error) {
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
	report(fn(ctx, nil))

	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					report(fw.addTree(ev.Name))
					continue
				}
			}
			if !fw.relevant(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(fw.debounce)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			report(err)
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			slices.Sort(changed)
			report(fn(ctx, changed))
		}
	}
}
