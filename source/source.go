/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package source discovers token files under the tokens directory and
// classifies each one by layer, brand and theme.
package source

import (
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	tessfs "bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/token"
)

// BrandsDir is the directory under the tokens root holding one directory
// per brand.
const BrandsDir = "brands"

// Classification describes where a token file belongs.
type Classification struct {
	Layer token.Layer
	Brand string
	Theme token.Theme
}

// IsBrandTheme reports whether the file is a brand's light or dark theme.
func (c Classification) IsBrandTheme() bool {
	return c.Layer == token.LayerBrand && c.Theme != token.ThemeNone
}

// Rule maps a glob, relative to the tokens root, to a layer.
type Rule struct {
	Pattern string
	Layer   token.Layer
	// Prefix overrides the CSS variable prefix for matching files.
	Prefix string
}

// Layout is an ordered rule table. The first matching rule wins.
type Layout struct {
	Rules []Rule
}

// DefaultLayout returns the standard tokens directory layout.
func DefaultLayout() Layout {
	return Layout{Rules: []Rule{
		{Pattern: "primitives/**/*.{json,yaml,yml}", Layer: token.LayerPrimitive},
		{Pattern: "semantic/**/*.{json,yaml,yml}", Layer: token.LayerSemantic},
		{Pattern: "components/**/*.{json,yaml,yml}", Layer: token.LayerComponent},
		{Pattern: "custom/**/*.{json,yaml,yml}", Layer: token.LayerCustom},
		{Pattern: BrandsDir + "/*/**/*.{json,yaml,yml}", Layer: token.LayerBrand},
	}}
}

// brandPattern extracts the brand directory from a path.
var brandPattern = regexp.MustCompile(`(?:^|/)` + BrandsDir + `/([^/]+)/`)

// BrandFromPath returns the brand directory named in p, if any.
func BrandFromPath(p string) (string, bool) {
	m := brandPattern.FindStringSubmatch(filepath.ToSlash(p))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// wordPattern splits file stems and directories into words.
var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// ThemeFromPath returns the theme named by the file stem or a directory,
// matching "light" or "dark" as whole words.
func ThemeFromPath(rel string) token.Theme {
	rel = strings.ToLower(filepath.ToSlash(rel))
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	for _, w := range wordPattern.FindAllString(rel, -1) {
		switch w {
		case "light":
			return token.ThemeLight
		case "dark":
			return token.ThemeDark
		}
	}
	return token.ThemeNone
}

// IsConfigFile reports whether rel names a configuration file rather than
// tokens. Configuration files begin with an underscore.
func IsConfigFile(rel string) bool {
	return strings.HasPrefix(path.Base(filepath.ToSlash(rel)), "_")
}

// Classify classifies a path relative to the tokens root.
// ok is false for configuration files and files outside every rule.
func (l Layout) Classify(rel string) (Classification, Rule, bool) {
	rel = filepath.ToSlash(rel)
	if IsConfigFile(rel) {
		return Classification{}, Rule{}, false
	}
	for _, rule := range l.Rules {
		matched, err := doublestar.Match(rule.Pattern, rel)
		if err != nil || !matched {
			continue
		}
		c := Classification{Layer: rule.Layer, Theme: ThemeFromPath(rel)}
		if rule.Layer == token.LayerBrand {
			brand, ok := BrandFromPath(rel)
			if !ok {
				continue
			}
			c.Brand = brand
			// the brand directory name itself is not a theme word
			c.Theme = ThemeFromPath(strings.TrimPrefix(rel, BrandsDir+"/"+brand+"/"))
		}
		return c, rule, true
	}
	return Classification{}, Rule{}, false
}

// Discover walks root and returns the token files matched by the layout,
// relative to root, in lexical order.
func (l Layout) Discover(filesystem tessfs.FileSystem, root string) ([]string, error) {
	var matches []string
	err := fs.WalkDir(filesystem, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if _, _, ok := l.Classify(rel); ok {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// DiscoverBrands lists the brand directories under root/brands.
// A missing brands directory yields no brands.
func DiscoverBrands(filesystem tessfs.FileSystem, root string) ([]string, error) {
	dir := filepath.Join(root, BrandsDir)
	if !filesystem.Exists(dir) {
		return nil, nil
	}
	entries, err := filesystem.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var brands []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") && !strings.HasPrefix(e.Name(), "_") {
			brands = append(brands, e.Name())
		}
	}
	sort.Strings(brands)
	return brands, nil
}

// BrandFiles lists the token files of one brand, relative to the brand
// directory.
func BrandFiles(filesystem tessfs.FileSystem, root, brand string) ([]string, error) {
	dir := filepath.Join(root, BrandsDir, brand)
	var files []string
	err := fs.WalkDir(filesystem, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if IsConfigFile(rel) || !isTokenExt(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func isTokenExt(p string) bool {
	switch path.Ext(p) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
