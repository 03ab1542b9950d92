/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package figma

import (
	"slices"
	"strings"

	"bennypowers.dev/tessera/token"
)

// Placement records where a source token landed in the output tree.
type Placement struct {
	Token *token.Token
	// Theme is the output theme of this copy, ThemeNone outside themed subtrees.
	Theme token.Theme
	Path  []string
}

type scopeKey struct {
	brand string
	theme token.Theme
	path  string
}

// Index maps source dot paths to output paths, scoped by brand and theme.
type Index struct {
	exact map[scopeKey][]string
	first map[scopeKey][]string
}

func newIndex() *Index {
	return &Index{exact: map[scopeKey][]string{}, first: map[scopeKey][]string{}}
}

func (ix *Index) add(brand string, theme token.Theme, source string, out []string) {
	ix.exact[scopeKey{brand, theme, source}] = out
	k := scopeKey{brand, token.ThemeNone, source}
	if _, ok := ix.first[k]; !ok {
		ix.first[k] = out
	}
}

// Lookup finds the output path of source for a reference made from brand
// and theme. Brand placements win over global ones. A themed reference
// only sees its own theme and theme-neutral placements; a neutral one
// falls back to the first themed copy.
func (ix *Index) Lookup(brand string, theme token.Theme, source string) ([]string, bool) {
	var scopes []string
	if brand != "" {
		scopes = append(scopes, brand)
	}
	scopes = append(scopes, "")
	for _, b := range scopes {
		if theme != token.ThemeNone {
			if p, ok := ix.exact[scopeKey{b, theme, source}]; ok {
				return p, true
			}
		}
		if p, ok := ix.exact[scopeKey{b, token.ThemeNone, source}]; ok {
			return p, true
		}
		if theme == token.ThemeNone {
			if p, ok := ix.first[scopeKey{b, token.ThemeNone, source}]; ok {
				return p, true
			}
		}
	}
	return nil, false
}

// Router places tokens into the output tree by layer.
type Router struct {
	// BrandNames maps brand directories to display names.
	BrandNames map[string]string

	tree       token.Tree
	index      *Index
	placements []Placement
	byPath     map[string]int
}

// NewRouter returns a router with an empty tree.
func NewRouter(brandNames map[string]string) *Router {
	return &Router{
		BrandNames: brandNames,
		tree:       token.NewTree(),
		index:      newIndex(),
		byPath:     map[string]int{},
	}
}

// Tree returns the assembled tree.
func (r *Router) Tree() token.Tree { return r.tree }

// Index returns the placement index.
func (r *Router) Index() *Index { return r.index }

// Placements returns the placement behind each leaf of the tree, in
// routing order.
func (r *Router) Placements() []Placement { return r.placements }

// Brand returns the display name of a brand directory.
func (r *Router) Brand(dir string) string {
	if name, ok := r.BrandNames[dir]; ok && name != "" {
		return name
	}
	return BrandName(dir)
}

// Route places every token. Later tokens at the same output path replace
// earlier ones.
func (r *Router) Route(tokens []*token.Token) {
	for _, t := range tokens {
		for _, p := range r.paths(t) {
			r.place(t, p.theme, p.path)
		}
	}
}

type themedPath struct {
	theme token.Theme
	path  []string
}

// themesFor returns the themes a token is written into.
func themesFor(t *token.Token) []token.Theme {
	if t.Theme == token.ThemeNone {
		return token.Themes
	}
	return []token.Theme{t.Theme}
}

// paths returns the output paths of t, one per theme copy.
func (r *Router) paths(t *token.Token) []themedPath {
	segs := t.Path
	if len(segs) == 0 {
		return nil
	}
	join := func(head []string, tail []string) []string {
		return append(slices.Clone(head), tail...)
	}

	switch t.Layer {
	case token.LayerPrimitive:
		return []themedPath{{path: join([]string{Global, Primitives}, CategoryPath(segs))}}

	case token.LayerSemantic:
		var out []themedPath
		for _, th := range themesFor(t) {
			out = append(out, themedPath{theme: th, path: join([]string{Global, Semantic, th.Title()}, SemanticPath(segs))})
		}
		return out

	case token.LayerComponent:
		// components are duplicated into both themes
		names := make([]string, 0, len(segs))
		for _, s := range segs {
			names = append(names, TitleCase(s))
		}
		var out []themedPath
		for _, th := range token.Themes {
			out = append(out, themedPath{theme: th, path: join([]string{Global, Components, th.Title()}, names)})
		}
		return out

	case token.LayerCustom:
		return []themedPath{{path: join([]string{Global, Custom}, CategoryPath(segs))}}

	case token.LayerBrand:
		brand := r.Brand(t.Brand)
		if t.Theme != token.ThemeNone {
			return []themedPath{{theme: t.Theme, path: join([]string{Brands, brand, t.Theme.Title()}, SemanticPath(segs))}}
		}
		return []themedPath{{path: join([]string{Brands, brand}, CategoryPath(segs))}}
	}
	return nil
}

func (r *Router) place(t *token.Token, theme token.Theme, path []string) {
	leaf := map[string]any{"$value": t.Source()}
	if t.Type != "" {
		leaf["$type"] = t.Type
	}
	if t.Description != "" {
		leaf["$description"] = t.Description
	}
	r.tree.Set(path, leaf)
	r.index.add(t.Brand, theme, t.DotPath(), path)
	pl := Placement{Token: t, Theme: theme, Path: path}
	key := pathKey(path)
	if i, ok := r.byPath[key]; ok {
		r.placements[i] = pl
		return
	}
	r.byPath[key] = len(r.placements)
	r.placements = append(r.placements, pl)
}

func pathKey(path []string) string {
	return strings.Join(path, "\x00")
}
