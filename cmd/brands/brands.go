/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package brands provides the brands command for tessera.
package brands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/tessera/cmd/project"
	"bennypowers.dev/tessera/config"
	"bennypowers.dev/tessera/figma"
	"bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/source"
)

// Cmd is the brands cobra command.
var Cmd = &cobra.Command{
	Use:   "brands",
	Short: "List discovered brands",
	Long: `List the brand directories under tokens/brands together with their
settings in figma-brands.config.json.

Use --write-config to regenerate the config from the brand directories.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("write-config", false, "Regenerate "+config.BrandsFileName)
}

func run(cmd *cobra.Command, args []string) error {
	writeConfig, _ := cmd.Flags().GetBool("write-config")

	filesystem := fs.NewOSFileSystem()
	p, err := project.Load(filesystem, project.FlagsFromViper())
	if err != nil {
		return err
	}

	dirs, err := source.DiscoverBrands(filesystem, p.TokensDir())
	if err != nil {
		return err
	}

	var b *config.Brands
	if writeConfig {
		if b, err = config.GenerateBrands(filesystem, p.TokensDir()); err != nil {
			return err
		}
		if err := config.WriteBrands(filesystem, p.BrandsPath(), b); err != nil {
			return err
		}
		logger.Info("wrote %s (%d brands)", p.BrandsPath(), len(b.Brands))
	} else if b, err = config.LoadBrands(filesystem, p.BrandsPath()); err != nil {
		return err
	}

	printBrands(cmd.OutOrStdout(), dirs, b)
	return nil
}

// printBrands writes one row per brand directory. Without a config every
// brand shows its defaults.
func printBrands(w io.Writer, dirs []string, b *config.Brands) {
	if len(dirs) == 0 {
		fmt.Fprintln(w, "no brands found")
		return
	}
	for _, dir := range dirs {
		name, enabled, themes := figma.BrandName(dir), true, "light,dark"
		if b != nil {
			if cfg, ok := b.Brands[dir]; ok {
				if cfg.Name != "" {
					name = cfg.Name
				}
				enabled = cfg.Enabled
			}
			var ts []string
			for _, th := range b.Themes(dir) {
				ts = append(ts, string(th))
			}
			themes = strings.Join(ts, ",")
		}
		state := "enabled"
		if !enabled {
			state = "disabled"
		}
		fmt.Fprintf(w, "%-20s %-24s %-9s %s\n", dir, name, state, themes)
	}
}
