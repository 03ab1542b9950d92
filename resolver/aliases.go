/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"strings"

	"bennypowers.dev/tessera/token"
)

// Unresolved records a reference that names no known token.
type Unresolved struct {
	Token *token.Token
	Ref   string
}

func (u Unresolved) String() string {
	return fmt.Sprintf("%s: {%s}", u.Token.DotPath(), u.Ref)
}

// Result reports the outcome of a resolution pass.
type Result struct {
	// Unresolved lists references left verbatim in their token's value.
	Unresolved []Unresolved
}

// ResolveAliases resolves all references in the token list, following
// reference chains until a literal is reached. Updates ResolvedValue,
// IsResolved and ResolutionChain on each token.
func ResolveAliases(tokens []*token.Token) (*Result, error) {
	graph := BuildDependencyGraph(tokens)

	sortedPaths, err := graph.TopologicalSort()
	if err != nil {
		return nil, err
	}

	tokenByPath := make(map[string]*token.Token, len(tokens))
	for _, tok := range tokens {
		tokenByPath[tok.DotPath()] = tok
	}

	result := &Result{}
	for _, path := range sortedPaths {
		tok := tokenByPath[path]
		if tok == nil {
			continue
		}
		resolveToken(tok, tokenByPath, result)
	}

	return result, nil
}

func resolveToken(tok *token.Token, tokenByPath map[string]*token.Token, result *Result) {
	if tok.IsResolved {
		return
	}
	r := &tokenResolver{tok: tok, byPath: tokenByPath, result: result}
	tok.ResolvedValue = r.value(tok.Source())
	tok.ResolutionChain = r.chain
	tok.IsResolved = true
}

type tokenResolver struct {
	tok    *token.Token
	byPath map[string]*token.Token
	result *Result
	chain  []string
}

func (r *tokenResolver) lookup(ref string) (*token.Token, bool) {
	target, ok := r.byPath[ref]
	if !ok {
		r.result.Unresolved = append(r.result.Unresolved, Unresolved{Token: r.tok, Ref: ref})
		return nil, false
	}
	return target, true
}

// value resolves every reference inside v. A string that is exactly one
// reference takes the referent's value, keeping its structure; references
// embedded in longer strings are replaced with the referent's CSS text.
func (r *tokenResolver) value(v any) any {
	switch x := v.(type) {
	case string:
		if token.IsWholeRef(x) {
			ref, _ := token.ParseCurlyBraceRef(x)
			target, ok := r.lookup(ref)
			if !ok {
				return x
			}
			if r.chain == nil {
				r.chain = append([]string{ref}, target.ResolutionChain...)
			}
			return target.Resolved()
		}
		return token.ReplaceRefs(x, func(ref string) (string, bool) {
			target, ok := r.lookup(ref)
			if !ok {
				return "", false
			}
			return token.CSSValue(target.Type, target.Resolved()), true
		})
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, child := range x {
			out[k] = r.value(child)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, child := range x {
			out[i] = r.value(child)
		}
		return out
	default:
		return v
	}
}

// Merge combines token layers. A token in a later layer replaces a token
// with the same dot path from an earlier layer, keeping the earlier position.
func Merge(layers ...[]*token.Token) []*token.Token {
	index := make(map[string]int)
	var merged []*token.Token
	for _, layer := range layers {
		for _, tok := range layer {
			path := tok.DotPath()
			if i, ok := index[path]; ok {
				merged[i] = tok
				continue
			}
			index[path] = len(merged)
			merged = append(merged, tok)
		}
	}
	return merged
}

// Clone deep-copies tokens so one resolution pass does not affect another.
func Clone(tokens []*token.Token) []*token.Token {
	out := make([]*token.Token, len(tokens))
	for i, tok := range tokens {
		c := tok.Clone()
		c.ResolvedValue = nil
		c.IsResolved = false
		c.ResolutionChain = nil
		out[i] = c
	}
	return out
}

// UnresolvedRefs returns the sorted unique references in the result.
func (r *Result) UnresolvedRefs() []string {
	seen := map[string]bool{}
	var refs []string
	for _, u := range r.Unresolved {
		if !seen[u.Ref] {
			seen[u.Ref] = true
			refs = append(refs, u.Ref)
		}
	}
	return refs
}

// Summary renders the unresolved references for a log line.
func (r *Result) Summary() string {
	parts := make([]string, len(r.Unresolved))
	for i, u := range r.Unresolved {
		parts[i] = u.String()
	}
	return strings.Join(parts, ", ")
}
