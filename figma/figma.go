/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package figma assembles the Figma-importable token tree. It routes every
// source token into the Global/Brands namespace, rewrites references to
// point into that namespace, patches missing brand theme categories and
// serializes the result.
package figma

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/token"
)

// DefaultFileName is the output file when chunking is off.
const DefaultFileName = "tokens.json"

// Options configures Build.
type Options struct {
	// BrandNames maps brand directories to display names.
	BrandNames map[string]string
	// Brand keeps only one brand, by directory or display name.
	Brand string
	// Themes keeps only the listed themes. Empty means both.
	Themes []token.Theme
	// BrandThemes limits the themes of individual brands, keyed by
	// directory. Brands not listed keep Themes.
	BrandThemes map[string][]token.Theme
	// OptimizeRefs collapses alias chains to one hop.
	OptimizeRefs bool
	// Strict fails instead of filling missing categories.
	Strict bool
	// NoFill disables the gap-filler.
	NoFill bool
	// ChunkSize splits output into files of at most this many tokens.
	ChunkSize int
	// Version is stamped into $metadata.
	Version string
	// Now returns the generation time. Defaults to time.Now.
	Now func() time.Time
}

// File is one emitted file.
type File struct {
	Name string
	Data []byte
}

// Result is the outcome of Build.
type Result struct {
	Tree       token.Tree
	Files      []File
	Filled     []Fill
	Unresolved []string
	Tokens     int
}

// Build routes tokens, rewrites references, fills gaps and emits files.
// Tokens must be ordered by precedence, lowest first.
func Build(tokens []*token.Token, opts Options) (*Result, error) {
	router := NewRouter(opts.BrandNames)
	router.Route(tokens)

	// Filtering first keeps references from pointing into removed subtrees.
	tree := router.Tree()
	if err := Filter(tree, router, opts.Brand, opts.Themes); err != nil {
		return nil, err
	}
	brandThemes := brandThemesByName(router, opts.BrandThemes)
	FilterBrandThemes(tree, brandThemes)

	res := NewResolver(router)
	res.RewriteAll(router)
	if len(res.Unresolved) > 0 {
		logger.Warn("%d references passed through unchanged: %s", len(res.Unresolved), strings.Join(uniqStrings(res.Unresolved), ", "))
	}

	if opts.OptimizeRefs {
		n := OptimizeRefs(tree)
		logger.Debug("optimized %d references", n)
	}

	filled, err := FillMissing(tree, FillOptions{Themes: opts.Themes, BrandThemes: brandThemes, Strict: opts.Strict, Disabled: opts.NoFill})
	if err != nil {
		return nil, err
	}

	meta := Meta{Version: opts.Version, Now: opts.Now, Filled: filled}
	var files []File
	if opts.ChunkSize > 0 {
		files, err = Chunk(tree, opts.ChunkSize, meta)
	} else {
		var data []byte
		data, err = Emit(tree, meta)
		files = []File{{Name: DefaultFileName, Data: data}}
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Tree:       tree,
		Files:      files,
		Filled:     filled,
		Unresolved: uniqStrings(res.Unresolved),
		Tokens:     tree.Leaves(),
	}, nil
}

// Filter removes every brand but brand (when set) and every theme
// subtree not in themes.
func Filter(tree token.Tree, router *Router, brand string, themes []token.Theme) error {
	if brand != "" {
		brands, _ := tree.Subtree(Brands)
		keep := router.Brand(brand)
		found := false
		for name := range brands {
			if name == keep || strings.EqualFold(name, brand) {
				found = true
				continue
			}
			delete(brands, name)
		}
		if !found {
			return fmt.Errorf("unknown brand: %s", brand)
		}
	}

	if len(themes) == 0 || len(themes) == len(token.Themes) {
		return nil
	}
	drop := map[string]bool{}
	for _, th := range token.Themes {
		drop[th.Title()] = true
	}
	for _, th := range themes {
		delete(drop, th.Title())
	}

	var parents [][]string
	parents = append(parents, []string{Global, Semantic}, []string{Global, Components})
	if brands, ok := tree.Subtree(Brands); ok {
		for _, b := range token.SortedKeys(map[string]any(brands)) {
			parents = append(parents, []string{Brands, b})
		}
	}
	for _, parent := range parents {
		for name := range drop {
			tree.Delete(append(parent, name))
		}
	}
	return nil
}

// FilterBrandThemes removes the theme subtrees of each brand in allowed
// that its theme list leaves out. Keys are display names.
func FilterBrandThemes(tree token.Tree, allowed map[string][]token.Theme) {
	for _, b := range token.SortedKeys(allowed) {
		for _, th := range token.Themes {
			if !slices.Contains(allowed[b], th) {
				tree.Delete([]string{Brands, b, th.Title()})
			}
		}
	}
}

func brandThemesByName(router *Router, in map[string][]token.Theme) map[string][]token.Theme {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]token.Theme, len(in))
	for key, themes := range in {
		out[router.Brand(key)] = themes
	}
	return out
}

// Meta is the $metadata block written into every file.
type Meta struct {
	Version string
	Now     func() time.Time
	Filled  []Fill
	// Chunk and Chunks number the file when output is split.
	Chunk, Chunks int
}

func (m Meta) render(count int) map[string]any {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	filled := make([]string, len(m.Filled))
	for i, f := range m.Filled {
		filled[i] = f.String()
	}
	out := map[string]any{
		"version":    m.Version,
		"generated":  now().UTC().Format(time.RFC3339),
		"tokenCount": count,
		"filled":     filled,
	}
	if m.Chunks > 0 {
		out["chunk"] = m.Chunk
		out["chunks"] = m.Chunks
	}
	return out
}

// Emit serializes tree with two-space indentation and a $metadata block.
// Keys are sorted, so output differs between runs only in "generated".
func Emit(tree token.Tree, meta Meta) ([]byte, error) {
	doc := make(map[string]any, len(tree)+1)
	for k, v := range tree {
		doc[k] = v
	}
	doc["$metadata"] = meta.render(tree.Leaves())

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode figma tokens: %w", err)
	}
	return buf.Bytes(), nil
}

// collection is a second-level subtree such as Global.Primitives or Brands.Acme.
type collection struct {
	path  []string
	node  any
	count int
}

func collections(tree token.Tree) []collection {
	var out []collection
	for _, top := range token.SortedKeys(map[string]any(tree)) {
		sub, ok := tree.Subtree(top)
		if !ok {
			continue
		}
		for _, name := range token.SortedKeys(map[string]any(sub)) {
			node := sub[name]
			n := 0
			if child, ok := tree.Subtree(top, name); ok {
				n = child.Leaves()
			} else if token.IsLeaf(node) {
				n = 1
			}
			out = append(out, collection{path: []string{top, name}, node: node, count: n})
		}
	}
	return out
}

// Chunk splits the tree into files of at most size tokens, packing whole
// second-level collections in order. A collection larger than size gets a
// file of its own. Files are named tokens-1.json, tokens-2.json, ...
func Chunk(tree token.Tree, size int, meta Meta) ([]File, error) {
	var groups [][]collection
	var current []collection
	total := 0
	for _, c := range collections(tree) {
		if len(current) > 0 && total+c.count > size {
			groups = append(groups, current)
			current, total = nil, 0
		}
		current = append(current, c)
		total += c.count
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	files := make([]File, 0, len(groups))
	for i, g := range groups {
		part := token.NewTree()
		for _, c := range g {
			top, ok := part[c.path[0]].(map[string]any)
			if !ok {
				top = map[string]any{}
				part[c.path[0]] = top
			}
			top[c.path[1]] = c.node
		}
		m := meta
		m.Chunk, m.Chunks = i+1, len(groups)
		data, err := Emit(part, m)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: fmt.Sprintf("tokens-%d.json", i+1), Data: data})
	}
	return files, nil
}

func uniqStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
