/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project turns the persistent CLI flags and the project config
// into build options shared by every command.
package project

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/tessera/build"
	"bennypowers.dev/tessera/config"
	"bennypowers.dev/tessera/convert"
	tessfs "bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/version"
)

// Flags are the persistent flag values. Empty fields keep the config value.
type Flags struct {
	Root   string
	Tokens string
	Output string
	Prefix string
}

// FlagsFromViper reads the persistent flags bound in viper, including
// their TESSERA_* environment overrides.
func FlagsFromViper() Flags {
	return Flags{
		Root:   viper.GetString("root"),
		Tokens: viper.GetString("tokens"),
		Output: viper.GetString("output"),
		Prefix: viper.GetString("prefix"),
	}
}

// Project is a loaded project.
type Project struct {
	Root   string
	Config *config.Config
}

// Load reads the project config under flags.Root and applies the flag
// overrides. Flags win over prefix files, which win over the config file.
func Load(filesystem tessfs.FileSystem, flags Flags) (*Project, error) {
	root := flags.Root
	if root == "" {
		root = "."
	}
	cfg, err := config.LoadOrDefault(filesystem, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.Tokens != "" {
		cfg.Tokens = flags.Tokens
		if err := cfg.ApplyPrefixFiles(filesystem, cfg.TokensDir(root)); err != nil {
			return nil, err
		}
	}
	if flags.Output != "" {
		cfg.Output = flags.Output
	}
	if flags.Prefix != "" {
		cfg.Prefix = flags.Prefix
	}
	return &Project{Root: root, Config: cfg}, nil
}

// TokensDir is the project's tokens directory.
func (p *Project) TokensDir() string {
	return p.Config.TokensDir(p.Root)
}

// BrandsPath is the path of the brands config.
func (p *Project) BrandsPath() string {
	return filepath.Join(p.Root, config.BrandsFileName)
}

// BuildOptions returns the build options the config describes.
func (p *Project) BuildOptions() (build.Options, error) {
	layout, err := p.Config.Layout()
	if err != nil {
		return build.Options{}, err
	}
	formats, err := convert.ParseFormats(p.Config.Formats)
	if err != nil {
		return build.Options{}, err
	}
	return build.Options{
		Root:             p.Root,
		TokensDir:        p.TokensDir(),
		OutputDir:        p.Config.OutputDir(p.Root),
		Layout:           layout,
		Prefix:           p.Config.Prefix,
		CustomPrefix:     p.Config.CustomPrefix,
		BatchSize:        p.Config.BatchSize,
		Formats:          formats,
		OutputReferences: p.Config.OutputReferences,
		FigmaOptions:     p.Config.Figma,
		Version:          version.Get(),
	}, nil
}
