/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	tessfs "bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/parser"
	"bennypowers.dev/tessera/token"
)

// DefaultBatchSize is the number of files read concurrently.
const DefaultBatchSize = 5

// Cache reuses parsed tokens for files whose content is unchanged.
type Cache interface {
	Lookup(path string, content []byte) ([]*token.Token, bool)
	Store(path string, content []byte, tokens []*token.Token)
}

// Options configures Load.
type Options struct {
	// Root is the tokens directory.
	Root string
	// Layout classifies files. The zero value uses DefaultLayout.
	Layout Layout
	// BatchSize bounds concurrent reads.
	BatchSize int
	// Prefix is the CSS variable prefix for all tokens.
	Prefix string
	// CustomPrefix overrides Prefix for custom-layer tokens.
	CustomPrefix string
	// Cache, when set, is consulted for primitive files.
	Cache Cache
	// Include filters files by path relative to Root.
	Include func(rel string, c Classification) bool
}

// File is one loaded token file.
type File struct {
	// Path is the file path relative to the tokens root, slash separated.
	Path string
	Classification
	Tokens []*token.Token
}

// Set is the result of Load, in discovery order.
type Set struct {
	Files []*File
}

// Load discovers and parses every token file under opts.Root.
// Any read or parse error aborts the load.
func Load(ctx context.Context, filesystem tessfs.FileSystem, opts Options) (*Set, error) {
	layout := opts.Layout
	if len(layout.Rules) == 0 {
		layout = DefaultLayout()
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	rels, err := layout.Discover(filesystem, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to discover token files in %s: %w", opts.Root, err)
	}

	type planned struct {
		rel   string
		class Classification
		rule  Rule
	}
	var plan []planned
	for _, rel := range rels {
		c, rule, _ := layout.Classify(rel)
		if opts.Include != nil && !opts.Include(rel, c) {
			logger.Debug("skipping %s", rel)
			continue
		}
		plan = append(plan, planned{rel: rel, class: c, rule: rule})
	}

	files := make([]*File, len(plan))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batch)
	p := parser.NewJSONParser()

	for i, item := range plan {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prefix := opts.Prefix
			if item.class.Layer == token.LayerCustom && opts.CustomPrefix != "" {
				prefix = opts.CustomPrefix
			}
			if item.rule.Prefix != "" {
				prefix = item.rule.Prefix
			}
			tokens, err := loadFile(filesystem, p, opts, item.rel, item.class, prefix)
			if err != nil {
				return err
			}
			files[i] = &File{Path: item.rel, Classification: item.class, Tokens: tokens}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("loaded %d token files from %s", len(files), opts.Root)
	return &Set{Files: files}, nil
}

func loadFile(filesystem tessfs.FileSystem, p *parser.JSONParser, opts Options, rel string, c Classification, prefix string) ([]*token.Token, error) {
	abs := filepath.Join(opts.Root, rel)
	data, err := filesystem.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", abs, err)
	}

	useCache := opts.Cache != nil && c.Layer == token.LayerPrimitive
	var tokens []*token.Token
	cached := false
	if useCache {
		tokens, cached = opts.Cache.Lookup(rel, data)
	}
	if !cached {
		tokens, err = p.Parse(data, parser.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to parse file %s: %w", abs, err)
		}
		if useCache {
			opts.Cache.Store(rel, data, tokens)
		}
	}

	for _, t := range tokens {
		t.Name = strings.Join(t.Path, "-")
		t.FilePath = rel
		t.Prefix = prefix
		t.Layer = c.Layer
		t.Brand = c.Brand
		t.Theme = c.Theme
	}
	return tokens, nil
}

// Tokens returns the tokens of every file matching keep, in order.
func (s *Set) Tokens(keep func(*File) bool) []*token.Token {
	var out []*token.Token
	for _, f := range s.Files {
		if keep == nil || keep(f) {
			out = append(out, f.Tokens...)
		}
	}
	return out
}

// Layer returns the tokens of one layer outside any brand.
func (s *Set) Layer(l token.Layer) []*token.Token {
	return s.Tokens(func(f *File) bool { return f.Layer == l })
}

// Brands returns the brands that have at least one loaded file, sorted
// by first appearance in discovery order.
func (s *Set) Brands() []string {
	seen := map[string]bool{}
	var brands []string
	for _, f := range s.Files {
		if f.Brand != "" && !seen[f.Brand] {
			seen[f.Brand] = true
			brands = append(brands, f.Brand)
		}
	}
	return brands
}

// Count returns the total number of tokens.
func (s *Set) Count() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Tokens)
	}
	return n
}

// Ordered returns all tokens by precedence, lowest first: primitive,
// semantic, component, custom, brand, then brand theme.
func (s *Set) Ordered() []*token.Token {
	var out []*token.Token
	for _, l := range []token.Layer{token.LayerPrimitive, token.LayerSemantic, token.LayerComponent, token.LayerCustom} {
		out = append(out, s.Layer(l)...)
	}
	out = append(out, s.Tokens(func(f *File) bool { return f.Layer == token.LayerBrand && !f.IsBrandTheme() })...)
	out = append(out, s.Tokens(func(f *File) bool { return f.IsBrandTheme() })...)
	return out
}
