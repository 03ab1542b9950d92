/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package build orchestrates a full token build: load, merge per brand and
// theme, resolve, format and write.
package build

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"time"

	"bennypowers.dev/tessera/cache"
	"bennypowers.dev/tessera/config"
	"bennypowers.dev/tessera/convert"
	"bennypowers.dev/tessera/convert/formatter/css"
	"bennypowers.dev/tessera/figma"
	tessfs "bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/resolver"
	"bennypowers.dev/tessera/source"
	"bennypowers.dev/tessera/token"
)

// Options configures Build.
type Options struct {
	// Root is the project root. The cache lives under it.
	Root string
	// TokensDir is the tokens directory.
	TokensDir string
	// OutputDir is the build directory.
	OutputDir string
	// Layout classifies token files. The zero value uses the default layout.
	Layout source.Layout
	// Prefix and CustomPrefix name CSS variables.
	Prefix       string
	CustomPrefix string
	// BatchSize bounds concurrent reads and writes.
	BatchSize int
	// Brands is the brands config. Nil builds every discovered brand.
	Brands *config.Brands
	// Brand limits the build to one brand directory.
	Brand string
	// Themes limits the build to the listed themes. Empty means both.
	Themes []token.Theme
	// Formats lists the value outputs.
	Formats []convert.Format
	// OutputReferences keeps references as variables in CSS and SCSS.
	OutputReferences bool
	// Figma also writes the Figma tree.
	Figma bool
	// FigmaOptions configures the Figma output.
	FigmaOptions config.Figma
	// NoCache disables the primitives cache.
	NoCache bool
	// CleanCache removes the cache before building.
	CleanCache bool
	// DryRun logs planned writes without touching disk.
	DryRun bool
	// Version is stamped into headers and metadata.
	Version string
	// Now returns the generation time. Defaults to time.Now.
	Now func() time.Time
}

// Output is one planned output file.
type Output struct {
	Path string
	Data []byte
}

// Result reports what a build produced.
type Result struct {
	Outputs    []Output
	Tokens     int
	Unresolved []resolver.Unresolved
	Figma      *figma.Result
}

// Variant is one merged token set for a brand and theme. The empty brand is
// the default design system.
type Variant struct {
	Brand  string
	Theme  token.Theme
	Tokens []*token.Token
}

// Build runs the pipeline and writes every output. Any error aborts the
// build before the cache is saved.
func Build(ctx context.Context, filesystem tessfs.FileSystem, opts Options) (*Result, error) {
	themes := opts.Themes
	if len(themes) == 0 {
		themes = token.Themes
	}

	set, c, err := Load(ctx, filesystem, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Tokens: set.Count()}
	header := fmt.Sprintf("Generated by tessera %s.\nDo not edit directly.", opts.Version)

	for _, v := range Variants(set, themes, opts.Brands) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resolved := resolver.Clone(v.Tokens)
		res, err := resolver.ResolveAliases(resolved)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v, err)
		}
		for _, u := range res.Unresolved {
			logger.Warn("%s: unresolved reference %s", v, u)
		}
		result.Unresolved = append(result.Unresolved, res.Unresolved...)

		outputs, err := opts.format(v, resolved, themes, header)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v, err)
		}
		result.Outputs = append(result.Outputs, outputs...)
	}

	if opts.Figma {
		fr, err := figma.Build(set.Ordered(), opts.FigmaBuildOptions(themes))
		if err != nil {
			return nil, fmt.Errorf("figma: %w", err)
		}
		for _, f := range fr.Files {
			result.Outputs = append(result.Outputs, Output{Path: path.Join("figma", f.Name), Data: f.Data})
		}
		result.Figma = fr
	}

	if err := Write(ctx, filesystem, opts.OutputDir, result.Outputs, opts.BatchSize, opts.DryRun); err != nil {
		return nil, err
	}
	if c != nil && !opts.DryRun {
		if err := c.Save(); err != nil {
			return nil, err
		}
	}

	logger.Info("built %d files from %d tokens", len(result.Outputs), result.Tokens)
	return result, nil
}

// Load reads the token set selected by opts. Unless NoCache is set it
// returns the primitives cache it consulted so callers can save it.
func Load(ctx context.Context, filesystem tessfs.FileSystem, opts Options) (*source.Set, *cache.Cache, error) {
	cacheDir := filepath.Join(opts.Root, cache.DefaultDir)
	if opts.CleanCache && !opts.DryRun {
		if err := cache.Clean(filesystem, cacheDir); err != nil {
			return nil, nil, err
		}
		logger.Info("cleaned %s", cacheDir)
	}

	loadOpts := source.Options{
		Root:         opts.TokensDir,
		Layout:       opts.Layout,
		BatchSize:    opts.BatchSize,
		Prefix:       opts.Prefix,
		CustomPrefix: opts.CustomPrefix,
		Include:      opts.include,
	}
	var c *cache.Cache
	if !opts.NoCache {
		c = cache.Open(filesystem, cacheDir)
		loadOpts.Cache = c
	}

	set, err := source.Load(ctx, filesystem, loadOpts)
	if err != nil {
		return nil, nil, err
	}
	if opts.Brand != "" && !slices.Contains(set.Brands(), opts.Brand) {
		return nil, nil, fmt.Errorf("unknown brand %q (found: %v)", opts.Brand, set.Brands())
	}
	if c != nil {
		hits, misses := c.Stats()
		logger.Debug("cache: %d hits, %d misses", hits, misses)
	}
	return set, c, nil
}

func (v Variant) String() string {
	if v.Brand == "" {
		return string(v.Theme)
	}
	return v.Brand + "/" + string(v.Theme)
}

// include filters brand files by the brands config and the brand filter.
func (opts Options) include(rel string, c source.Classification) bool {
	if c.Layer != token.LayerBrand {
		return true
	}
	if opts.Brand != "" && c.Brand != opts.Brand {
		return false
	}
	return opts.Brands == nil || opts.Brands.Includes(rel)
}

// FigmaBuildOptions returns the figma.Build options for themes.
func (opts Options) FigmaBuildOptions(themes []token.Theme) figma.Options {
	fo := figma.Options{
		Brand:        opts.Brand,
		Themes:       themes,
		OptimizeRefs: opts.FigmaOptions.OptimizeRefs,
		Strict:       opts.FigmaOptions.Strict,
		NoFill:       !opts.FigmaOptions.FillEnabled(),
		ChunkSize:    opts.FigmaOptions.ChunkSize,
		Version:      opts.Version,
		Now:          opts.Now,
	}
	if opts.Brands != nil {
		fo.BrandNames = opts.Brands.Names()
		fo.BrandThemes = make(map[string][]token.Theme, len(opts.Brands.Brands))
		for _, id := range token.SortedKeys(opts.Brands.Brands) {
			fo.BrandThemes[id] = opts.Brands.Themes(id)
		}
	}
	return fo
}

// matchesTheme reports whether a file of theme belongs in a build for want.
func matchesTheme(theme, want token.Theme) bool {
	return theme == token.ThemeNone || theme == want
}

// Variants merges the loaded files into one token set per theme for the
// default design system, then per brand and theme. Later layers override
// earlier ones: primitive, semantic, component, custom, brand, brand theme.
func Variants(set *source.Set, themes []token.Theme, brands *config.Brands) []Variant {
	var variants []Variant
	base := make(map[token.Theme][]*token.Token, len(themes))
	for _, th := range themes {
		var layers [][]*token.Token
		for _, l := range []token.Layer{token.LayerPrimitive, token.LayerSemantic, token.LayerComponent, token.LayerCustom} {
			layers = append(layers, set.Tokens(func(f *source.File) bool {
				return f.Layer == l && matchesTheme(f.Theme, th)
			}))
		}
		base[th] = resolver.Merge(layers...)
		variants = append(variants, Variant{Theme: th, Tokens: base[th]})
	}

	for _, brand := range set.Brands() {
		allowed := token.Themes
		if brands != nil {
			allowed = brands.Themes(brand)
		}
		for _, th := range themes {
			if !slices.Contains(allowed, th) {
				continue
			}
			brandBase := set.Tokens(func(f *source.File) bool {
				return f.Brand == brand && !f.IsBrandTheme()
			})
			brandTheme := set.Tokens(func(f *source.File) bool {
				return f.Brand == brand && f.IsBrandTheme() && f.Theme == th
			})
			variants = append(variants, Variant{
				Brand:  brand,
				Theme:  th,
				Tokens: resolver.Merge(base[th], brandBase, brandTheme),
			})
		}
	}
	return variants
}

// format renders the value outputs of one variant.
func (opts Options) format(v Variant, tokens []*token.Token, themes []token.Theme, header string) ([]Output, error) {
	var outputs []Output
	for _, f := range opts.Formats {
		p, ok := OutputPath(v, f, themes[0])
		if !ok {
			continue
		}
		data, err := convert.FormatTokens(tokens, f, convert.Options{
			Prefix:           opts.Prefix,
			Delimiter:        "-",
			Header:           header,
			Selector:         css.Selector(v.Brand, v.Theme),
			OutputReferences: opts.OutputReferences,
		})
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", f, err)
		}
		outputs = append(outputs, Output{Path: p, Data: data})
	}
	return outputs, nil
}

// OutputPath returns the path of a variant's output relative to the build
// directory. JS and TS modules are written for the default design system
// only; the primary theme is tokens.js and other themes add a suffix.
func OutputPath(v Variant, f convert.Format, primary token.Theme) (string, bool) {
	theme := string(v.Theme)
	if v.Brand != "" {
		switch f {
		case convert.FormatJS, convert.FormatTS:
			return "", false
		default:
			return path.Join("brands", v.Brand, theme+f.Extension()), true
		}
	}
	switch f {
	case convert.FormatSCSS:
		return path.Join("scss", "_"+theme+f.Extension()), true
	case convert.FormatJS, convert.FormatTS:
		name := "tokens"
		if v.Theme != primary {
			name += "-" + theme
		}
		return path.Join(string(f), name+f.Extension()), true
	case convert.FormatFlatJSON:
		return path.Join("json", theme+f.Extension()), true
	default:
		return path.Join(string(f), theme+f.Extension()), true
	}
}
