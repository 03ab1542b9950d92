/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package build

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	tessfs "bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/source"
)

// Write writes outputs under dir with at most batch concurrent writes.
// With dryRun it only logs what would be written.
func Write(ctx context.Context, filesystem tessfs.FileSystem, dir string, outputs []Output, batch int, dryRun bool) error {
	if batch <= 0 {
		batch = source.DefaultBatchSize
	}
	if dryRun {
		for _, o := range outputs {
			logger.Info("would write %s (%d bytes)", filepath.Join(dir, o.Path), len(o.Data))
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batch)
	for _, o := range outputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := filepath.Join(dir, filepath.FromSlash(o.Path))
			if err := tessfs.WriteFileAll(filesystem, p, o.Data); err != nil {
				return fmt.Errorf("failed to write %s: %w", p, err)
			}
			logger.Debug("wrote %s", p)
			return nil
		})
	}
	return g.Wait()
}
