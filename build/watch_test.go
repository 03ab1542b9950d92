/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_DebouncesBursts(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var builds atomic.Int32
	w := &Watcher{
		Debounce: 20 * time.Millisecond,
		Build: func(context.Context) error {
			builds.Add(1)
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan string)
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, events) }()

	for _, name := range []string{"a.json", "b.json", "c.json"} {
		events <- name
	}
	assert.Eventually(t, func() bool { return builds.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), builds.Load(), "a burst of changes is one build")

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_CoalescesDuringBuild(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var builds atomic.Int32
	started := make(chan struct{}, 4)
	release := make(chan struct{})
	w := &Watcher{
		Debounce: 5 * time.Millisecond,
		Build: func(ctx context.Context) error {
			n := builds.Add(1)
			started <- struct{}{}
			if n == 1 {
				<-release
			}
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan string)
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, events) }()

	events <- "a.json"
	<-started

	// each of these debounces into its own trigger while the first build runs
	for _, name := range []string{"b.json", "c.json", "d.json"} {
		events <- name
		time.Sleep(20 * time.Millisecond)
	}
	close(release)

	<-started
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), builds.Load(), "changes during a build coalesce into one follow-up")

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_BuildErrorKeepsWatching(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var builds atomic.Int32
	w := &Watcher{
		Debounce: 5 * time.Millisecond,
		Build: func(context.Context) error {
			builds.Add(1)
			return errors.New("boom")
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan string)
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, events) }()

	events <- "a.json"
	assert.Eventually(t, func() bool { return builds.Load() == 1 }, time.Second, 5*time.Millisecond)
	events <- "b.json"
	assert.Eventually(t, func() bool { return builds.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_Watch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "primitives"), 0o755))

	var builds atomic.Int32
	w := &Watcher{
		Debounce: 10 * time.Millisecond,
		Build: func(context.Context) error {
			builds.Add(1)
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, dir) }()

	// give the watcher time to register directories
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "primitives", "color.json"), []byte("{}"), 0o644))
	assert.Eventually(t, func() bool { return builds.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	// directories created after start are watched too
	nested := filepath.Join(dir, "brands", "acme")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	time.Sleep(50 * time.Millisecond)
	before := builds.Load()
	require.NoError(t, os.WriteFile(filepath.Join(nested, "colors.json"), []byte("{}"), 0o644))
	assert.Eventually(t, func() bool { return builds.Load() > before }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
