/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package css provides a CSS custom properties formatter.
package css

import (
	"bytes"
	"fmt"
	"strings"

	"bennypowers.dev/tessera/convert/formatter"
	"bennypowers.dev/tessera/token"
)

// SelectorRoot is the selector for the default brand in the light theme.
const SelectorRoot = ":root"

// Options configures the CSS formatter.
type Options struct {
	// Selector wraps the declarations. Defaults to :root.
	Selector string
}

// Formatter outputs CSS custom properties.
type Formatter struct {
	opts Options
}

// New creates a new CSS formatter with default options.
func New() *Formatter {
	return &Formatter{}
}

// NewWithOptions creates a new CSS formatter with the given options.
func NewWithOptions(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Selector returns the rule selector for a brand and theme.
// The empty brand is the default brand.
func Selector(brand string, theme token.Theme) string {
	var parts []string
	if brand != "" {
		parts = append(parts, fmt.Sprintf("[data-brand=%q]", brand))
	}
	if theme == token.ThemeDark {
		parts = append(parts, `[data-theme="dark"]`)
	}
	if len(parts) == 0 {
		return SelectorRoot
	}
	return strings.Join(parts, "")
}

// Format converts tokens to a CSS rule of custom properties.
func (f *Formatter) Format(tokens []*token.Token, opts formatter.Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(formatter.FormatHeader(opts.Header, formatter.CStyleComments))
	f.WriteRule(&buf, tokens, opts)
	return buf.Bytes(), nil
}

// WriteRule appends a single rule for tokens to buf.
func (f *Formatter) WriteRule(buf *bytes.Buffer, tokens []*token.Token, opts formatter.Options) {
	selector := f.opts.Selector
	if selector == "" {
		selector = SelectorRoot
	}
	index := formatter.Index(tokens)
	render := func(target *token.Token) string {
		return formatter.CSSVar(target, opts)
	}

	fmt.Fprintf(buf, "%s {\n", selector)
	for _, tok := range formatter.SortTokens(tokens) {
		if tok.Description != "" {
			fmt.Fprintf(buf, "  /* %s */\n", escapeComment(tok.Description))
		}
		fmt.Fprintf(buf, "  --%s: %s;\n", formatter.Name(tok, opts), formatter.CSSText(tok, opts, index, render))
	}
	buf.WriteString("}\n")
}

func escapeComment(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.ReplaceAll(s, "\n", " ")
}
