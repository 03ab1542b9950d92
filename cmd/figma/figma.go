/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package figma provides the figma command for tessera.
package figma

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	buildlib "bennypowers.dev/tessera/build"
	"bennypowers.dev/tessera/cmd/project"
	"bennypowers.dev/tessera/config"
	figmalib "bennypowers.dev/tessera/figma"
	"bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/token"
)

// Cmd is the figma cobra command.
var Cmd = &cobra.Command{
	Use:   "figma",
	Short: "Write the Figma Tokens Studio tree",
	Long: `Route every token into the Global/Brands tree used by Figma Tokens Studio,
fill missing brand theme categories with a fallback palette, and write the
result as one file or as collection chunks.

Examples:
  # Write build/figma/tokens.json
  tessera figma

  # One brand, collections of at most 200 tokens
  tessera figma --brand acme --chunk-size 200

  # Fail instead of filling missing categories
  tessera figma --strict`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("brand", "b", "", "Keep only this brand directory")
	Cmd.Flags().StringP("theme", "t", "all", "Themes to keep: light, dark, all")
	Cmd.Flags().Bool("optimize-refs", false, "Point references at the nearest equivalent token")
	Cmd.Flags().Int("chunk-size", 0, "Split collections into files of at most N tokens")
	Cmd.Flags().Bool("strict", false, "Fail when a brand theme is missing a category")
	Cmd.Flags().Bool("no-fill", false, "Skip the fallback palette")
	Cmd.Flags().StringP("out", "o", "", "Output directory (default <output>/figma)")
	Cmd.Flags().BoolP("dry-run", "n", false, "Log planned writes without writing")
}

func run(cmd *cobra.Command, args []string) error {
	brand, _ := cmd.Flags().GetString("brand")
	themeFlag, _ := cmd.Flags().GetString("theme")
	out, _ := cmd.Flags().GetString("out")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

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
	opts.Brands, err = config.LoadBrands(filesystem, p.BrandsPath())
	if err != nil {
		return err
	}
	configure(&opts, brand, themes, dryRun)
	applyFlags(cmd, &opts.FigmaOptions)

	set, _, err := buildlib.Load(cmd.Context(), filesystem, opts)
	if err != nil {
		return err
	}
	result, err := figmalib.Build(set.Ordered(), opts.FigmaBuildOptions(themes))
	if err != nil {
		return fmt.Errorf("figma: %w", err)
	}

	if out == "" {
		out = filepath.Join(opts.OutputDir, "figma")
	}
	outputs := make([]buildlib.Output, len(result.Files))
	for i, f := range result.Files {
		outputs[i] = buildlib.Output{Path: f.Name, Data: f.Data}
	}
	if err := buildlib.Write(cmd.Context(), filesystem, out, outputs, opts.BatchSize, dryRun); err != nil {
		return err
	}
	if len(result.Filled) > 0 {
		logger.Info("filled %d missing categories", len(result.Filled))
	}
	logger.Info("wrote %d tokens in %d files to %s", result.Tokens, len(outputs), out)
	return nil
}

// configure narrows opts to the figma run. The tree is built from a
// single load, so the primitives cache is neither read nor saved.
func configure(opts *buildlib.Options, brand string, themes []token.Theme, dryRun bool) {
	opts.Brand = brand
	opts.Themes = themes
	opts.DryRun = dryRun
	opts.NoCache = true
}

// applyFlags overrides the config's Figma section with the flags that
// were set on the command line.
func applyFlags(cmd *cobra.Command, f *config.Figma) {
	flags := cmd.Flags()
	if flags.Changed("optimize-refs") {
		f.OptimizeRefs, _ = flags.GetBool("optimize-refs")
	}
	if flags.Changed("chunk-size") {
		f.ChunkSize, _ = flags.GetInt("chunk-size")
	}
	if flags.Changed("strict") {
		f.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("no-fill") {
		noFill, _ := flags.GetBool("no-fill")
		fill := !noFill
		f.Fill = &fill
	}
}
