/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"

	"bennypowers.dev/tessera/figma"
	tessfs "bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/source"
	"bennypowers.dev/tessera/token"
)

// BrandsFileName is the brands config file in the project root.
const BrandsFileName = "figma-brands.config.json"

// ErrInvalidBrandsConfig reports a brands config that cannot be used.
var ErrInvalidBrandsConfig = errors.New("invalid brands config")

// Brands lists the brands of the project keyed by brand directory.
type Brands struct {
	Brands map[string]Brand `json:"brands"`
}

// Brand configures one brand.
type Brand struct {
	// Name is the display name used in the Figma tree.
	Name string `json:"name"`
	// Enabled brands are built.
	Enabled bool `json:"enabled"`
	// Include lists the brand's token files relative to its directory.
	// An empty list includes every file.
	Include []string `json:"include"`
	// Themes lists the themes built for the brand.
	Themes []string `json:"themes"`
}

// LoadBrands reads the brands config at path. A missing file returns nil.
func LoadBrands(filesystem tessfs.FileSystem, path string) (*Brands, error) {
	if !filesystem.Exists(path) {
		return nil, nil
	}
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b := &Brands{}
	if err := json.Unmarshal(jsonc.ToJSON(data), b); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBrandsConfig, path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Validate checks theme names.
func (b *Brands) Validate() error {
	for _, id := range token.SortedKeys(b.Brands) {
		for _, th := range b.Brands[id].Themes {
			if _, err := token.ParseThemes(th); err != nil {
				return fmt.Errorf("%w: brand %s: %v", ErrInvalidBrandsConfig, id, err)
			}
		}
	}
	return nil
}

// GenerateBrands builds a brands config by scanning tokensDir/brands.
// Every discovered brand is enabled with all of its files and both themes.
func GenerateBrands(filesystem tessfs.FileSystem, tokensDir string) (*Brands, error) {
	dirs, err := source.DiscoverBrands(filesystem, tokensDir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover brands: %w", err)
	}
	b := &Brands{Brands: make(map[string]Brand, len(dirs))}
	for _, dir := range dirs {
		files, err := source.BrandFiles(filesystem, tokensDir, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list files of brand %s: %w", dir, err)
		}
		b.Brands[dir] = Brand{
			Name:    figma.BrandName(dir),
			Enabled: true,
			Include: files,
			Themes:  []string{string(token.ThemeLight), string(token.ThemeDark)},
		}
	}
	return b, nil
}

// WriteBrands writes b to path as indented JSON.
func WriteBrands(filesystem tessfs.FileSystem, path string, b *Brands) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return tessfs.WriteFileAll(filesystem, path, append(data, '\n'))
}

// EnsureBrands loads the brands config in rootDir, regenerating it from the
// tokens directory when missing. The regenerated file is written back
// unless dryRun is set.
func EnsureBrands(filesystem tessfs.FileSystem, rootDir, tokensDir string, dryRun bool) (*Brands, error) {
	path := filepath.Join(rootDir, BrandsFileName)
	b, err := LoadBrands(filesystem, path)
	if err != nil || b != nil {
		return b, err
	}
	b, err = GenerateBrands(filesystem, tokensDir)
	if err != nil {
		return nil, err
	}
	if dryRun {
		logger.Info("would write %s (%d brands)", path, len(b.Brands))
		return b, nil
	}
	if err := WriteBrands(filesystem, path, b); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("wrote %s (%d brands)", path, len(b.Brands))
	return b, nil
}

// Enabled returns the enabled brand directories, sorted.
func (b *Brands) Enabled() []string {
	var out []string
	for _, id := range token.SortedKeys(b.Brands) {
		if b.Brands[id].Enabled {
			out = append(out, id)
		}
	}
	return out
}

// Names maps brand directories to display names.
func (b *Brands) Names() map[string]string {
	names := make(map[string]string, len(b.Brands))
	for id, brand := range b.Brands {
		if brand.Name != "" {
			names[id] = brand.Name
		}
	}
	return names
}

// Themes returns the configured themes of brand, both when unset.
func (b *Brands) Themes(brand string) []token.Theme {
	cfg, ok := b.Brands[brand]
	if !ok || len(cfg.Themes) == 0 {
		return token.Themes
	}
	var out []token.Theme
	for _, name := range cfg.Themes {
		themes, err := token.ParseThemes(name)
		if err != nil {
			continue
		}
		for _, th := range themes {
			if !slices.Contains(out, th) {
				out = append(out, th)
			}
		}
	}
	return out
}

// Includes reports whether the brand file rel, relative to the tokens
// directory, should be loaded. Files of unknown brands are included.
func (b *Brands) Includes(rel string) bool {
	brand, ok := source.BrandFromPath(rel)
	if !ok {
		return true
	}
	cfg, known := b.Brands[brand]
	if !known {
		return true
	}
	if !cfg.Enabled {
		return false
	}
	if len(cfg.Include) == 0 {
		return true
	}
	file := strings.TrimPrefix(filepath.ToSlash(rel), source.BrandsDir+"/"+brand+"/")
	return slices.Contains(cfg.Include, file)
}
