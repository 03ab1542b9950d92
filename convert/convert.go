/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package convert serializes resolved tokens into the value output formats.
package convert

import (
	"strings"

	"bennypowers.dev/tessera/token"
)

// Options configures token serialization behavior.
type Options struct {
	// Format specifies the output format (default FormatCSS).
	Format Format

	// Prefix is added to output variable names of tokens that carry none.
	Prefix string

	// Delimiter is the separator for flattened keys (default "-").
	Delimiter string

	// Header is a comment banner for formats that support comments.
	Header string

	// Selector is the CSS rule selector (default :root).
	Selector string

	// OutputReferences keeps references as variable references in CSS and SCSS.
	OutputReferences bool

	// Flatten produces a shallow structure with delimiter-separated keys
	// instead of nested groups.
	Flatten bool

	// Raw serializes the authored $value instead of the resolved value.
	Raw bool
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Delimiter: "-",
		Format:    FormatCSS,
	}
}

// Serialize converts tokens to a DTCG map structure.
func Serialize(tokens []*token.Token, opts Options) map[string]any {
	if opts.Delimiter == "" {
		opts.Delimiter = "-"
	}
	if opts.Flatten {
		return buildFlatStructure(tokens, opts)
	}
	return buildNestedStructure(tokens, opts)
}

// buildFlatStructure creates a shallow map with delimiter-separated keys.
func buildFlatStructure(tokens []*token.Token, opts Options) map[string]any {
	result := make(map[string]any)
	for _, tok := range tokens {
		result[strings.Join(tok.Path, opts.Delimiter)] = serializeToken(tok, opts)
	}
	return result
}

// buildNestedStructure creates a nested map following the token paths.
func buildNestedStructure(tokens []*token.Token, opts Options) map[string]any {
	tree := token.NewTree()
	for _, tok := range tokens {
		tree.Set(tok.Path, serializeToken(tok, opts))
	}
	return tree
}

// serializeToken converts a single token to its DTCG map representation.
func serializeToken(tok *token.Token, opts Options) map[string]any {
	result := make(map[string]any)

	value := tok.Resolved()
	if opts.Raw {
		value = tok.Source()
	}
	if value != nil {
		result["$value"] = value
	}

	if tok.Type != "" {
		result["$type"] = tok.Type
	}

	if tok.Description != "" {
		result["$description"] = tok.Description
	}

	if len(tok.Extensions) > 0 {
		result["$extensions"] = tok.Extensions
	}

	if tok.Deprecated {
		if tok.DeprecationMessage != "" {
			result["$deprecated"] = tok.DeprecationMessage
		} else {
			result["$deprecated"] = true
		}
	}

	return result
}
