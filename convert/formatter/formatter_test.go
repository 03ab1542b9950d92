/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package formatter_test

import (
	"strings"
	"testing"

	"bennypowers.dev/tessera/convert/formatter"
	"bennypowers.dev/tessera/token"
)

func TestFormatHeader_Empty(t *testing.T) {
	result := formatter.FormatHeader("", formatter.CStyleComments)
	if result != "" {
		t.Errorf("expected empty string for empty header, got %q", result)
	}
}

func TestFormatHeader_SingleLine_WithLinePrefix(t *testing.T) {
	result := formatter.FormatHeader("Copyright 2026", formatter.SCSSComments)
	expected := "// Copyright 2026\n\n"
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestFormatHeader_MultiLine_CStyle(t *testing.T) {
	result := formatter.FormatHeader("Copyright 2026\nMIT License", formatter.CStyleComments)
	if !strings.HasPrefix(result, "/*\n") {
		t.Error("expected C-style block comment start")
	}
	if !strings.Contains(result, " * Copyright 2026\n") {
		t.Error("expected line with asterisk prefix")
	}
	if !strings.Contains(result, " * MIT License\n") {
		t.Error("expected second line with asterisk prefix")
	}
	if !strings.HasSuffix(result, "*/\n\n") {
		t.Error("expected block comment end")
	}
}

func TestFormatHeader_TrailingNewlines(t *testing.T) {
	result := formatter.FormatHeader("Copyright 2026\n\n\n", formatter.SCSSComments)
	expected := "// Copyright 2026\n\n"
	if result != expected {
		t.Errorf("expected trailing newlines to be trimmed, got %q", result)
	}
}

func TestToCamelCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"color-primary", "colorPrimary"},
		{"color_primary", "colorPrimary"},
		{"color.primary", "colorPrimary"},
		{"ColorPrimary", "colorPrimary"},
		{"color-primary-dark", "colorPrimaryDark"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := formatter.ToCamelCase(tt.input)
			if result != tt.expected {
				t.Errorf("ToCamelCase(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestApplyPrefix(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		delimiter string
		expected  string
	}{
		{"color-primary", "", "-", "color-primary"},
		{"color-primary", "rh", "-", "rh-color-primary"},
		{"color_primary", "rh", "_", "rh_color_primary"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_"+tt.prefix, func(t *testing.T) {
			result := formatter.ApplyPrefix(tt.name, tt.prefix, tt.delimiter)
			if result != tt.expected {
				t.Errorf("ApplyPrefix(%q, %q, %q) = %q, expected %q",
					tt.name, tt.prefix, tt.delimiter, result, tt.expected)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		tok      *token.Token
		opts     formatter.Options
		expected string
	}{
		{"token prefix", &token.Token{Name: "color-primary", Prefix: "ds"}, formatter.Options{Prefix: "x"}, "ds-color-primary"},
		{"options prefix", &token.Token{Name: "color-primary"}, formatter.Options{Prefix: "x"}, "x-color-primary"},
		{"no prefix", &token.Token{Path: []string{"spacing", "md"}}, formatter.Options{}, "spacing-md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatter.Name(tt.tok, tt.opts); got != tt.expected {
				t.Errorf("Name() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCSSText(t *testing.T) {
	black := &token.Token{Name: "color-black", Path: []string{"color", "black"}, Value: "#000", Prefix: "ds"}
	border := &token.Token{
		Name:          "border-default",
		Path:          []string{"border", "default"},
		Value:         "1px solid {color.black}",
		ResolvedValue: "1px solid #000",
		Prefix:        "ds",
	}
	dangling := &token.Token{
		Name:          "border-focus",
		Path:          []string{"border", "focus"},
		Value:         "2px solid {color.ring}",
		ResolvedValue: "2px solid {color.ring}",
	}
	index := formatter.Index([]*token.Token{black, border, dangling})
	render := func(tok *token.Token) string { return formatter.CSSVar(tok, formatter.Options{}) }

	tests := []struct {
		name     string
		tok      *token.Token
		refs     bool
		expected string
	}{
		{"resolved", border, false, "1px solid #000"},
		{"references", border, true, "1px solid var(--ds-color-black)"},
		{"literal", black, true, "#000"},
		{"unknown reference falls back", dangling, true, "2px solid {color.ring}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.CSSText(tt.tok, formatter.Options{OutputReferences: tt.refs}, index, render)
			if got != tt.expected {
				t.Errorf("CSSText() = %q, want %q", got, tt.expected)
			}
		})
	}
}
