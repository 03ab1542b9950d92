/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package build provides the build command for tessera.
package build

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	buildlib "bennypowers.dev/tessera/build"
	"bennypowers.dev/tessera/cmd/project"
	"bennypowers.dev/tessera/config"
	"bennypowers.dev/tessera/convert"
	"bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/token"
)

// Cmd is the build cobra command.
var Cmd = &cobra.Command{
	Use:   "build",
	Short: "Build token outputs",
	Long: `Build every theme of the default design system and of each brand into
value outputs under the build directory.

Examples:
  # Build everything
  tessera build

  # Build one brand in the dark theme
  tessera build --brand acme --theme dark

  # Rebuild on change, keeping var() references in CSS
  tessera build --watch --output-references

  # Show what would be written
  tessera build --dry-run`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("brand", "b", "", "Build only this brand directory")
	Cmd.Flags().StringP("theme", "t", "all", "Theme to build: light, dark, all")
	Cmd.Flags().BoolP("watch", "w", false, "Rebuild when token files change")
	Cmd.Flags().Bool("no-cache", false, "Parse primitives without the cache")
	Cmd.Flags().Bool("clean-cache", false, "Remove the cache before building")
	Cmd.Flags().BoolP("dry-run", "n", false, "Log planned writes without writing")
	Cmd.Flags().StringSlice("formats", nil, "Value outputs: "+strings.Join(convert.ValidFormats(), ", "))
	Cmd.Flags().Bool("output-references", false, "Keep references as variables in CSS and SCSS")
	Cmd.Flags().Bool("figma", false, "Also write the Figma tree")
}

func run(cmd *cobra.Command, args []string) error {
	brand, _ := cmd.Flags().GetString("brand")
	themeFlag, _ := cmd.Flags().GetString("theme")
	watch, _ := cmd.Flags().GetBool("watch")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	cleanCache, _ := cmd.Flags().GetBool("clean-cache")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	formats, _ := cmd.Flags().GetStringSlice("formats")
	outputRefs, _ := cmd.Flags().GetBool("output-references")
	withFigma, _ := cmd.Flags().GetBool("figma")

	themes, err := token.ParseThemes(themeFlag)
	if err != nil {
		return err
	}

	filesystem := fs.NewOSFileSystem()
	p, err := project.Load(filesystem, project.FlagsFromViper())
	if err != nil {
		return err
	}
	opts, err := p.BuildOptions()
	if err != nil {
		return err
	}
	if len(formats) > 0 {
		if opts.Formats, err = convert.ParseFormats(formats); err != nil {
			return err
		}
	}
	opts.Brands, err = config.EnsureBrands(filesystem, p.Root, p.TokensDir(), dryRun)
	if err != nil {
		return err
	}
	opts.Brand = brand
	opts.Themes = themes
	opts.NoCache = noCache
	opts.CleanCache = cleanCache
	opts.DryRun = dryRun
	opts.OutputReferences = opts.OutputReferences || outputRefs
	opts.Figma = withFigma

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if _, err := buildlib.Build(ctx, filesystem, opts); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	logger.Info("build finished in %s", time.Since(start).Round(time.Millisecond))
	if !watch {
		return nil
	}

	// Later rebuilds keep the cache but never clean it again.
	opts.CleanCache = false
	w := &buildlib.Watcher{
		Build: func(ctx context.Context) error {
			_, err := buildlib.Build(ctx, filesystem, opts)
			return err
		},
	}
	if err := w.Watch(ctx, opts.TokensDir); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
