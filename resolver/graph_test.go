/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"errors"
	"strings"
	"testing"

	"bennypowers.dev/tessera/resolver"
	"bennypowers.dev/tessera/token"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tok builds a token at a dot path with the given raw value.
func tok(path string, typ string, v any) *token.Token {
	segs := strings.Split(path, ".")
	t := &token.Token{
		Name:     strings.Join(segs, "-"),
		Path:     segs,
		Type:     typ,
		RawValue: v,
	}
	if s, ok := v.(string); ok {
		t.Value = s
	}
	return t
}

func TestDependencyGraph_NoCycle(t *testing.T) {
	tokens := []*token.Token{
		tok("a", "", "1"),
		tok("b", "", "{a}"),
		tok("c", "", "{b}"),
	}

	graph := resolver.BuildDependencyGraph(tokens)

	if graph.HasCycle() {
		t.Error("expected no cycle")
	}
	if diff := cmp.Diff([]string{"b"}, graph.Dependents("a")); diff != "" {
		t.Errorf("Dependents(a) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, graph.Dependencies("b")); diff != "" {
		t.Errorf("Dependencies(b) mismatch (-want +got):\n%s", diff)
	}
}

func TestDependencyGraph_Cycle(t *testing.T) {
	tokens := []*token.Token{
		tok("a", "", "{c}"),
		tok("b", "", "{a}"),
		tok("c", "", "{b}"),
	}

	graph := resolver.BuildDependencyGraph(tokens)

	if !graph.HasCycle() {
		t.Error("expected cycle")
	}
	cycle := graph.FindCycle()
	if len(cycle) != 4 || cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("expected closed cycle path, got %v", cycle)
	}

	_, err := graph.TopologicalSort()
	if !errors.Is(err, resolver.ErrCircularReference) {
		t.Errorf("expected ErrCircularReference, got %v", err)
	}
}

func TestDependencyGraph_TopologicalSort(t *testing.T) {
	tokens := []*token.Token{
		tok("text.primary", "", "{color.gray.900}"),
		tok("color.gray.900", "", "#111"),
		tok("shadow.sm", "", "0 1px 2px {text.primary}"),
	}

	sorted, err := resolver.BuildDependencyGraph(tokens).TopologicalSort()
	require.NoError(t, err)

	pos := map[string]int{}
	for i, p := range sorted {
		pos[p] = i
	}
	assert.Less(t, pos["color.gray.900"], pos["text.primary"])
	assert.Less(t, pos["text.primary"], pos["shadow.sm"])
}

func TestResolveAliases(t *testing.T) {
	tokens := []*token.Token{
		tok("base", "color", "#FF6B35"),
		tok("primary", "color", "{base}"),
	}

	result, err := resolver.ResolveAliases(tokens)
	require.NoError(t, err)
	assert.Empty(t, result.Unresolved)

	assert.Equal(t, "#FF6B35", tokens[0].ResolvedValue)
	assert.Equal(t, "#FF6B35", tokens[1].ResolvedValue)
	assert.True(t, tokens[1].IsResolved)
}

func TestResolveAliases_Transitive(t *testing.T) {
	tokens := []*token.Token{
		tok("button.bg", "color", "{interactive.primary}"),
		tok("interactive.primary", "color", "{color.blue.500}"),
		tok("color.blue.500", "color", "#0066cc"),
	}

	_, err := resolver.ResolveAliases(tokens)
	require.NoError(t, err)

	assert.Equal(t, "#0066cc", tokens[0].ResolvedValue)
	assert.Equal(t, []string{"interactive.primary", "color.blue.500"}, tokens[0].ResolutionChain)
}

func TestResolveAliases_Embedded(t *testing.T) {
	tokens := []*token.Token{
		tok("color.black", "color", "#000"),
		tok("spacing.sm", "dimension", map[string]any{"value": 4.0, "unit": "px"}),
		tok("border.default", "", "{spacing.sm} solid {color.black}"),
		tok("shadow.sm", "shadow", map[string]any{
			"offsetX": "0", "offsetY": "1px", "blur": "2px", "color": "{color.black}",
		}),
	}

	_, err := resolver.ResolveAliases(tokens)
	require.NoError(t, err)

	assert.Equal(t, "4px solid #000", tokens[2].ResolvedValue)
	shadow, ok := tokens[3].ResolvedValue.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "#000", shadow["color"])
}

func TestResolveAliases_WholeRefKeepsStructure(t *testing.T) {
	dim := map[string]any{"value": 1.0, "unit": "rem"}
	tokens := []*token.Token{
		tok("spacing.md", "dimension", dim),
		tok("gap.default", "dimension", "{spacing.md}"),
	}

	_, err := resolver.ResolveAliases(tokens)
	require.NoError(t, err)
	assert.Equal(t, dim, tokens[1].ResolvedValue)
	assert.Equal(t, "1rem", tokens[1].CSSValue())
}

func TestResolveAliases_Unresolved(t *testing.T) {
	tokens := []*token.Token{
		tok("text.primary", "color", "{color.missing}"),
	}

	result, err := resolver.ResolveAliases(tokens)
	require.NoError(t, err)

	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, "color.missing", result.Unresolved[0].Ref)
	assert.Equal(t, "{color.missing}", tokens[0].ResolvedValue)
	assert.Equal(t, []string{"color.missing"}, result.UnresolvedRefs())
	assert.Equal(t, "text.primary: {color.missing}", result.Summary())
}

func TestResolveAliases_Cycle(t *testing.T) {
	tokens := []*token.Token{
		tok("a", "", "{b}"),
		tok("b", "", "{a}"),
	}
	_, err := resolver.ResolveAliases(tokens)
	assert.ErrorIs(t, err, resolver.ErrCircularReference)
}

func TestMerge(t *testing.T) {
	primitive := []*token.Token{
		tok("color.primary", "color", "#000"),
		tok("spacing.md", "dimension", "1rem"),
	}
	brand := []*token.Token{
		tok("color.primary", "color", "#123456"),
		tok("brand.accent", "color", "#ff0"),
	}

	merged := resolver.Merge(primitive, brand)

	var paths []string
	for _, m := range merged {
		paths = append(paths, m.DotPath())
	}
	assert.Equal(t, []string{"color.primary", "spacing.md", "brand.accent"}, paths)
	assert.Equal(t, "#123456", merged[0].Value)
}

func TestClone(t *testing.T) {
	tokens := []*token.Token{tok("a", "", "1")}
	_, err := resolver.ResolveAliases(tokens)
	require.NoError(t, err)

	clones := resolver.Clone(tokens)
	assert.False(t, clones[0].IsResolved)
	assert.Nil(t, clones[0].ResolvedValue)
	assert.True(t, tokens[0].IsResolved)
}
