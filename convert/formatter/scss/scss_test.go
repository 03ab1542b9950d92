/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package scss_test

import (
	"errors"
	"testing"

	"bennypowers.dev/tessera/convert/formatter"
	"bennypowers.dev/tessera/convert/formatter/scss"
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

func TestFormat_Plain(t *testing.T) {
	got, err := scss.New().Format(loadTokens(t), formatter.Options{Header: "Generated file"})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	testutil.AssertGolden(t, "fixtures/scss/plain.scss", got)
}

func TestFormat_ReferencesInDependencyOrder(t *testing.T) {
	got, err := scss.New().Format(loadTokens(t), formatter.Options{OutputReferences: true})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	testutil.AssertGolden(t, "fixtures/scss/references.scss", got)
}

func TestFormat_Cycle(t *testing.T) {
	tokens := []*token.Token{
		{Name: "a", Path: []string{"a"}, Value: "{b}"},
		{Name: "b", Path: []string{"b"}, Value: "{a}"},
	}
	_, err := scss.New().Format(tokens, formatter.Options{OutputReferences: true})
	if !errors.Is(err, resolver.ErrCircularReference) {
		t.Errorf("expected ErrCircularReference, got %v", err)
	}
}

func TestFormat_CompositeReferencesStable(t *testing.T) {
	tokens := []*token.Token{
		{Name: "a-shadow", Path: []string{"a", "shadow"}, Type: token.TypeShadow, Value: map[string]any{
			"offsetX": "{z.one}",
			"offsetY": "{z.two}",
			"blur":    "{z.three}",
			"spread":  "{z.four}",
			"color":   "{z.five}",
		}},
		{Name: "z-one", Path: []string{"z", "one"}, Value: "1px"},
		{Name: "z-two", Path: []string{"z", "two"}, Value: "2px"},
		{Name: "z-three", Path: []string{"z", "three"}, Value: "3px"},
		{Name: "z-four", Path: []string{"z", "four"}, Value: "4px"},
		{Name: "z-five", Path: []string{"z", "five"}, Value: "#000"},
	}

	first, err := scss.New().Format(tokens, formatter.Options{OutputReferences: true})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	for i := 0; i < 50; i++ {
		got, err := scss.New().Format(tokens, formatter.Options{OutputReferences: true})
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if string(got) != string(first) {
			t.Fatalf("run %d differs:\n%s\nwant:\n%s", i, got, first)
		}
	}
}
