/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"bennypowers.dev/tessera/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Watcher rebuilds when files under a directory change. Rebuilds never
// overlap: changes during a build queue exactly one follow-up build.
type Watcher struct {
	// Debounce is the quiet period before a rebuild. Defaults to DefaultDebounce.
	Debounce time.Duration
	// Build runs one rebuild. Errors are logged and watching continues.
	Build func(context.Context) error
}

// Watch watches dir recursively until ctx is done.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := addTree(fw, dir); err != nil {
		fw.Close()
		return err
	}
	logger.Info("watching %s", dir)

	events := make(chan string)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(events)
		forward(ctx, fw, events)
	}()

	err = w.run(ctx, events)
	fw.Close()
	wg.Wait()
	return err
}

// forward passes relevant fsnotify events on until the watcher closes.
// New directories are watched as they appear.
func forward(ctx context.Context, fw *fsnotify.Watcher, events chan<- string) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if strings.HasPrefix(filepath.Base(ev.Name), ".") {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(fw, ev.Name); err != nil {
						logger.Warn("%v", err)
					}
				}
			}
			select {
			case events <- ev.Name:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// addTree adds dir and every directory below it.
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// run debounces events and drives serialized rebuilds until ctx is done
// or events closes.
func (w *Watcher) run(ctx context.Context, events <-chan string) error {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	// one slot: a pending build absorbs every change that arrives meanwhile
	trigger := make(chan struct{}, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range trigger {
			if ctx.Err() != nil {
				continue
			}
			start := time.Now()
			if err := w.Build(ctx); err != nil {
				logger.Error("build failed: %v", err)
				continue
			}
			logger.Info("rebuilt in %s", time.Since(start).Round(time.Millisecond))
		}
	}()
	defer func() {
		close(trigger)
		wg.Wait()
	}()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-events:
			if !ok {
				return nil
			}
			logger.Debug("changed: %s", name)
			timer.Reset(debounce)
		case <-timer.C:
			select {
			case trigger <- struct{}{}:
			default:
				logger.Debug("build already queued")
			}
		}
	}
}
