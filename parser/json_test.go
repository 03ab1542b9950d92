/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser_test

import (
	"testing"

	"bennypowers.dev/tessera/parser"
	"bennypowers.dev/tessera/testutil"
	"bennypowers.dev/tessera/token"
	"github.com/google/go-cmp/cmp"
)

func byPath(tokens []*token.Token) map[string]*token.Token {
	m := make(map[string]*token.Token, len(tokens))
	for _, t := range tokens {
		m[t.DotPath()] = t
	}
	return m
}

func TestJSONParser_ParseFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/parser", "/test")

	p := parser.NewJSONParser()
	tokens, err := p.ParseFile(mfs, "/test/tokens.json", parser.Options{Prefix: "ds"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var paths []string
	for _, tok := range tokens {
		paths = append(paths, tok.DotPath())
	}
	expected := []string{
		"color.accent",
		"color.accent.light",
		"color.primary",
		"color.secondary",
		"font.weight",
		"spacing.md",
		"spacing.old",
	}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("token paths mismatch (-want +got):\n%s", diff)
	}

	tokens2 := byPath(tokens)

	primary := tokens2["color.primary"]
	if primary.Type != token.TypeColor {
		t.Errorf("expected inherited type color, got %q", primary.Type)
	}
	if primary.Description != "Primary brand color" {
		t.Errorf("unexpected description %q", primary.Description)
	}
	if primary.FilePath != "/test/tokens.json" {
		t.Errorf("unexpected file path %q", primary.FilePath)
	}
	if primary.CSSVariableName() != "--ds-color-primary" {
		t.Errorf("unexpected CSS variable %q", primary.CSSVariableName())
	}

	if got := tokens2["color.accent"].Name; got != "color-accent" {
		t.Errorf("expected $root token to take the group name, got %q", got)
	}

	md := tokens2["spacing.md"]
	if md.Value != "" {
		t.Errorf("structured value should leave Value empty, got %q", md.Value)
	}
	if diff := cmp.Diff(map[string]any{"value": 1.0, "unit": "rem"}, md.RawValue); diff != "" {
		t.Errorf("raw value mismatch (-want +got):\n%s", diff)
	}

	old := tokens2["spacing.old"]
	if !old.Deprecated || old.DeprecationMessage != "Use spacing.xs" {
		t.Errorf("expected deprecation, got %v %q", old.Deprecated, old.DeprecationMessage)
	}

	weight := tokens2["font.weight"]
	if weight.Type != token.TypeFontWeight || weight.Extensions == nil {
		t.Errorf("unexpected font weight token %+v", weight)
	}
}

func TestJSONParser_YAML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/parser", "/test")

	tokens, err := parser.NewJSONParser().ParseFile(mfs, "/test/tokens.yaml", parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	m := byPath(tokens)
	if m["radius.100"] == nil || m["radius.100"].Value != "999px" {
		t.Errorf("expected numeric YAML key to be normalized, got %v", m)
	}
	if m["radius.md"].Type != token.TypeDimension {
		t.Errorf("expected inherited dimension type, got %q", m["radius.md"].Type)
	}
}

func TestJSONParser_InvalidJSON(t *testing.T) {
	_, err := parser.NewJSONParser().Parse([]byte(`{"color": {`), parser.Options{})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestJSONParser_MissingFile(t *testing.T) {
	mfs := testutil.NewMapFS(t, nil)
	_, err := parser.NewJSONParser().ParseFile(mfs, "/nope.json", parser.Options{})
	if err == nil {
		t.Fatal("expected read error")
	}
}
