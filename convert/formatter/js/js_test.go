/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package js_test

import (
	"strings"
	"testing"

	"bennypowers.dev/tessera/convert/formatter"
	"bennypowers.dev/tessera/convert/formatter/js"
	"bennypowers.dev/tessera/parser"
	"bennypowers.dev/tessera/resolver"
	"bennypowers.dev/tessera/testutil"
	"bennypowers.dev/tessera/token"
)

func loadTokens(t *testing.T) []*token.Token {
	t.Helper()
	mfs := testutil.NewFixtureFS(t, "fixtures", "/test")
	tokens, err := parser.NewJSONParser().ParseFile(mfs, "/test/tokens.json", parser.Options{Prefix: "ds"})
	if err != nil {
		t.Fatalf("failed to parse tokens.json: %v", err)
	}
	if _, err := resolver.ResolveAliases(tokens); err != nil {
		t.Fatalf("failed to resolve aliases: %v", err)
	}
	return tokens
}

func TestFormat_TypeScript(t *testing.T) {
	got, err := js.New().Format(loadTokens(t), formatter.Options{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	testutil.AssertGolden(t, "fixtures/js/tokens.ts", got)
}

func TestFormat_JSDoc(t *testing.T) {
	f := js.NewWithOptions(js.Options{Types: js.TypesJSDoc})
	got, err := f.Format(loadTokens(t), formatter.Options{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	testutil.AssertGolden(t, "fixtures/js/tokens.js", got)
}

func TestFormat_CommonJS(t *testing.T) {
	f := js.NewWithOptions(js.Options{Module: js.ModuleCJS, Types: js.TypesJSDoc})
	got, err := f.Format(loadTokens(t), formatter.Options{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := string(got)
	if strings.Contains(out, "export const") {
		t.Error("expected no ESM exports in CommonJS output")
	}
	for _, want := range []string{
		"const dsColorBlack = \"#000000\";\n",
		"module.exports = {\n  dsColorBlack,\n",
		"  tokens,\n};\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		opts     js.Options
		expected string
	}{
		{js.Options{}, ".ts"},
		{js.Options{Types: js.TypesJSDoc}, ".js"},
		{js.Options{Module: js.ModuleCJS}, ".cts"},
		{js.Options{Module: js.ModuleCJS, Types: js.TypesJSDoc}, ".cjs"},
	}
	for _, tt := range tests {
		if got := js.NewWithOptions(tt.opts).Extension(); got != tt.expected {
			t.Errorf("Extension(%+v) = %q, want %q", tt.opts, got, tt.expected)
		}
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		tok      *token.Token
		prefix   string
		expected string
	}{
		{&token.Token{Path: []string{"color", "blue", "500"}}, "", "colorBlue500"},
		{&token.Token{Path: []string{"spacing", "md"}, Prefix: "ds"}, "", "dsSpacingMd"},
		{&token.Token{Path: []string{"spacing", "md"}}, "app", "appSpacingMd"},
		{&token.Token{Path: []string{"2xl"}}, "", "_2xl"},
	}
	for _, tt := range tests {
		if got := js.Identifier(tt.tok, formatter.Options{Prefix: tt.prefix}); got != tt.expected {
			t.Errorf("Identifier(%v) = %q, want %q", tt.tok.Path, got, tt.expected)
		}
	}
}

func TestFormat_NameCollision(t *testing.T) {
	tokens := []*token.Token{
		{Name: "color-primary", Path: []string{"color", "primary"}, Value: "#000"},
		{Name: "color-Primary", Path: []string{"color-Primary"}, Value: "#fff"},
	}
	if _, err := js.New().Format(tokens, formatter.Options{}); err == nil {
		t.Error("expected collision error")
	}
}
