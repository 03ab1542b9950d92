/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package formatter provides the interface and common utilities for token formatters.
package formatter

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"unicode"

	"bennypowers.dev/tessera/token"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format converts tokens to the target format.
	Format(tokens []*token.Token, opts Options) ([]byte, error)
}

// Options configures formatter behavior.
type Options struct {
	// Prefix is added to output variable names of tokens that carry none.
	Prefix string

	// Delimiter is the separator for flattened keys.
	// Zero value is empty string; consuming code should set "-" if needed.
	Delimiter string

	// Header is a comment banner written at the top of the output.
	Header string

	// OutputReferences keeps references as variable references
	// instead of resolved values.
	OutputReferences bool
}

// CommentStyle selects how FormatHeader wraps header lines.
type CommentStyle int

const (
	// CStyleComments wraps the header in a /* */ block.
	CStyleComments CommentStyle = iota
	// SCSSComments prefixes every line with //.
	SCSSComments
)

// FormatHeader renders header as a comment banner followed by a blank line.
// An empty header renders as the empty string.
func FormatHeader(header string, style CommentStyle) string {
	header = strings.TrimRight(header, "\n")
	if header == "" {
		return ""
	}
	lines := strings.Split(header, "\n")
	var b strings.Builder
	switch style {
	case SCSSComments:
		for _, line := range lines {
			b.WriteString(strings.TrimRight("// "+line, " "))
			b.WriteString("\n")
		}
	default:
		b.WriteString("/*\n")
		for _, line := range lines {
			b.WriteString(strings.TrimRight(" * "+line, " "))
			b.WriteString("\n")
		}
		b.WriteString(" */\n")
	}
	b.WriteString("\n")
	return b.String()
}

// ResolvedValue returns the resolved value for a token, falling back to raw or original value.
func ResolvedValue(tok *token.Token) any {
	if tok == nil {
		return nil
	}
	return tok.Resolved()
}

// SortTokens returns a copy of tokens sorted by name.
func SortTokens(tokens []*token.Token) []*token.Token {
	sorted := make([]*token.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// Index maps dot paths to tokens. Later tokens win.
func Index(tokens []*token.Token) map[string]*token.Token {
	index := make(map[string]*token.Token, len(tokens))
	for _, tok := range tokens {
		index[tok.DotPath()] = tok
	}
	return index
}

// Name returns the kebab-case variable name of tok without a leading "--",
// prefixed with the token's own prefix or opts.Prefix.
func Name(tok *token.Token, opts Options) string {
	name := tok.Name
	if name == "" {
		name = strings.Join(tok.Path, "-")
	}
	name = strings.ReplaceAll(name, ".", "-")
	prefix := tok.Prefix
	if prefix == "" {
		prefix = opts.Prefix
	}
	delimiter := opts.Delimiter
	if delimiter == "" {
		delimiter = "-"
	}
	return ApplyPrefix(name, strings.ReplaceAll(prefix, ".", "-"), delimiter)
}

// CSSVar returns the var() expression for tok.
func CSSVar(tok *token.Token, opts Options) string {
	return "var(--" + Name(tok, opts) + ")"
}

// ValueWithRefs renders tok's raw value with each reference replaced by
// render(target). It reports false when tok has no references or any of them
// is unknown, in which case callers emit the resolved value.
func ValueWithRefs(tok *token.Token, index map[string]*token.Token, render func(*token.Token) string) (string, bool) {
	raw := tok.Source()
	refs := token.RefsIn(raw)
	if len(refs) == 0 {
		return "", false
	}
	for _, ref := range refs {
		if _, ok := index[ref]; !ok {
			return "", false
		}
	}
	replaced := token.MapStrings(raw, func(s string) string {
		return token.ReplaceRefs(s, func(path string) (string, bool) {
			return render(index[path]), true
		})
	})
	return token.CSSValue(tok.Type, replaced), true
}

// CSSText returns the CSS text for tok, keeping references as render(target)
// when opts.OutputReferences is set.
func CSSText(tok *token.Token, opts Options, index map[string]*token.Token, render func(*token.Token) string) string {
	if opts.OutputReferences {
		if s, ok := ValueWithRefs(tok, index, render); ok {
			return s
		}
	}
	return tok.CSSValue()
}

// MarshalJSON encodes v as two-space indented JSON without HTML escaping,
// terminated by a newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ApplyPrefix adds a prefix to a name with the given delimiter.
func ApplyPrefix(name, prefix, delimiter string) string {
	if prefix == "" {
		return name
	}
	return prefix + delimiter + name
}

// ApplyPrefixCamel applies a prefix in camelCase style.
func ApplyPrefixCamel(name, prefix string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return ToCamelCase(prefix)
	}
	return ToCamelCase(prefix) + strings.ToUpper(name[:1]) + name[1:]
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	words := SplitIntoWords(s)
	if len(words) == 0 {
		return ""
	}

	result := strings.ToLower(words[0])
	for i := 1; i < len(words); i++ {
		if len(words[i]) > 0 {
			result += strings.ToUpper(words[i][:1]) + strings.ToLower(words[i][1:])
		}
	}
	return result
}

// SplitIntoWords splits a string on hyphens, underscores, dots, and camelCase boundaries.
func SplitIntoWords(s string) []string {
	var words []string
	var current strings.Builder

	for i, r := range s {
		if r == '-' || r == '_' || r == '.' || r == ' ' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		} else if unicode.IsUpper(r) && i > 0 {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			current.WriteRune(r)
		} else {
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}
