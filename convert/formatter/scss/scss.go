/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package scss provides an SCSS variables formatter.
package scss

import (
	"bytes"
	"fmt"
	"strings"

	"bennypowers.dev/tessera/convert/formatter"
	"bennypowers.dev/tessera/resolver"
	"bennypowers.dev/tessera/token"
)

// Formatter outputs SCSS variables.
type Formatter struct{}

// New creates a new SCSS formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format converts tokens to SCSS variable declarations.
// With OutputReferences, variables are declared in dependency order
// so that every referenced variable is defined before use.
func (f *Formatter) Format(tokens []*token.Token, opts formatter.Options) ([]byte, error) {
	ordered := formatter.SortTokens(tokens)
	if opts.OutputReferences {
		var err error
		if ordered, err = dependencyOrder(tokens); err != nil {
			return nil, err
		}
	}

	index := formatter.Index(tokens)
	render := func(target *token.Token) string {
		return "$" + formatter.Name(target, opts)
	}

	var buf bytes.Buffer
	buf.WriteString(formatter.FormatHeader(opts.Header, formatter.SCSSComments))
	for _, tok := range ordered {
		if tok.Description != "" {
			fmt.Fprintf(&buf, "// %s\n", strings.ReplaceAll(tok.Description, "\n", " "))
		}
		fmt.Fprintf(&buf, "$%s: %s;\n", formatter.Name(tok, opts), formatter.CSSText(tok, opts, index, render))
	}
	return buf.Bytes(), nil
}

func dependencyOrder(tokens []*token.Token) ([]*token.Token, error) {
	paths, err := resolver.BuildDependencyGraph(tokens).TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("ordering scss variables: %w", err)
	}
	index := formatter.Index(tokens)
	ordered := make([]*token.Token, 0, len(paths))
	for _, p := range paths {
		if tok, ok := index[p]; ok {
			ordered = append(ordered, tok)
		}
	}
	return ordered, nil
}
