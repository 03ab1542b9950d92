/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package figma

import (
	"strings"

	"bennypowers.dev/tessera/source"
	"bennypowers.dev/tessera/token"
)

// Origin identifies where a reference was written.
type Origin struct {
	// Brand is the brand directory of the referring token, empty for global tokens.
	Brand string
	// Theme is the output theme of the referring copy.
	Theme token.Theme
	// FilePath is the referring token's file, used to recover the brand
	// of brand-scoped references.
	FilePath string
}

// primitivePrefixes are reference heads that fall back to Global.Primitives.
var primitivePrefixes = []string{"color", "spacing", "shadow", "radius", "typography"}

// Resolver rewrites source references into output tree references.
type Resolver struct {
	tree  token.Tree
	index *Index
	brand func(dir string) string
	// Unresolved collects the references left unchanged.
	Unresolved []string
}

// NewResolver returns a resolver over a router's placements.
func NewResolver(r *Router) *Resolver {
	return &Resolver{tree: r.Tree(), index: r.Index(), brand: r.Brand}
}

// Rewrite replaces every {...} placeholder in value with the equivalent
// output path. Placeholders without a leaf at that path stay verbatim and
// are recorded in Unresolved.
func (res *Resolver) Rewrite(value string, origin Origin) string {
	return token.ReplaceRefs(value, func(ref string) (string, bool) {
		path, ok := res.Target(ref, origin)
		if ok {
			node, found := res.tree.Get(path)
			ok = found && token.IsLeaf(node)
		}
		if !ok {
			res.Unresolved = append(res.Unresolved, ref)
			return "", false
		}
		return "{" + strings.Join(path, ".") + "}", true
	})
}

// Target returns the output path a source reference points to.
func (res *Resolver) Target(ref string, origin Origin) ([]string, bool) {
	if path, ok := res.index.Lookup(origin.Brand, origin.Theme, ref); ok {
		return path, true
	}

	segs := strings.Split(ref, ".")
	head := segs[0]
	if head == "brand" {
		dir, ok := source.BrandFromPath(origin.FilePath)
		if !ok {
			return nil, false
		}
		return append([]string{Brands, res.brand(dir)}, CategoryPath(segs)...), true
	}
	for _, p := range primitivePrefixes {
		if head == p && len(segs) > 1 {
			return append([]string{Global, Primitives}, CategoryPath(segs)...), true
		}
	}
	return nil, false
}

// RewriteAll rewrites the references of every placed leaf.
func (res *Resolver) RewriteAll(r *Router) {
	tree := r.Tree()
	for _, pl := range r.Placements() {
		node, ok := tree.Get(pl.Path)
		if !ok || !token.IsLeaf(node) {
			continue
		}
		leaf := node.(map[string]any)
		origin := Origin{Brand: pl.Token.Brand, Theme: pl.Theme, FilePath: pl.Token.FilePath}
		leaf["$value"] = token.MapStrings(leaf["$value"], func(s string) string {
			return res.Rewrite(s, origin)
		})
	}
}

// OptimizeRefs re-points aliases whose target is itself an alias at the
// end of the chain, so every alias is one hop.
func OptimizeRefs(tree token.Tree) int {
	changed := 0
	limit := tree.Leaves()
	tree.Walk(func(_ []string, leaf map[string]any) {
		s, ok := leaf["$value"].(string)
		if !ok || !token.IsWholeRef(s) {
			return
		}
		target := s
		for hops := 0; hops < limit; hops++ {
			ref, _ := token.ParseCurlyBraceRef(target)
			node, ok := tree.Get(strings.Split(ref, "."))
			if !ok || !token.IsLeaf(node) {
				break
			}
			next, ok := node.(map[string]any)["$value"].(string)
			if !ok || !token.IsWholeRef(next) {
				break
			}
			target = next
		}
		if target != s {
			leaf["$value"] = target
			changed++
		}
	})
	return changed
}
