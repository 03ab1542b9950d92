/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package flatjson provides flat key-value JSON formatting for design tokens.
package flatjson

import (
	"strings"

	"bennypowers.dev/tessera/convert/formatter"
	"bennypowers.dev/tessera/token"
)

// Formatter outputs flat key-value JSON.
type Formatter struct{}

// New creates a new flat JSON formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format converts tokens to flat key-value JSON. Keys are prefixed paths
// joined by the delimiter; values are resolved, with structure kept.
func (f *Formatter) Format(tokens []*token.Token, opts formatter.Options) ([]byte, error) {
	delimiter := opts.Delimiter
	if delimiter == "" {
		delimiter = "-"
	}

	result := make(map[string]any, len(tokens))
	for _, tok := range tokens {
		prefix := tok.Prefix
		if prefix == "" {
			prefix = opts.Prefix
		}
		key := formatter.ApplyPrefix(strings.Join(tok.Path, delimiter), prefix, delimiter)
		result[key] = formatter.ResolvedValue(tok)
	}

	return formatter.MarshalJSON(result)
}
