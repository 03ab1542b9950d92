/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"regexp"
	"strings"
)

var (
	// curlyBracePattern matches {token.path} references.
	curlyBracePattern = regexp.MustCompile(`\{([^{}]+)\}`)
	// wholeRefPattern matches a value that is exactly one reference.
	wholeRefPattern = regexp.MustCompile(`^\{([^{}]+)\}$`)
)

// ParseCurlyBraceRef extracts the token path from a curly brace reference.
// Returns the path and true if valid, empty string and false otherwise.
func ParseCurlyBraceRef(value string) (string, bool) {
	matches := curlyBracePattern.FindStringSubmatch(value)
	if len(matches) != 2 {
		return "", false
	}
	return strings.TrimSpace(matches[1]), true
}

// IsCurlyBraceRef returns true if the value contains a curly brace reference.
func IsCurlyBraceRef(value string) bool {
	return curlyBracePattern.MatchString(value)
}

// IsWholeRef returns true if the value is exactly one reference, e.g. "{color.primary}".
func IsWholeRef(value string) bool {
	return wholeRefPattern.MatchString(strings.TrimSpace(value))
}

// ExtractAllRefs extracts all curly brace references from a string.
func ExtractAllRefs(value string) []string {
	matches := curlyBracePattern.FindAllStringSubmatch(value, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) >= 2 {
			refs = append(refs, strings.TrimSpace(m[1]))
		}
	}
	return refs
}

// ReplaceRefs calls fn for every reference in value and substitutes its result.
// When fn returns false the placeholder is kept verbatim.
func ReplaceRefs(value string, fn func(path string) (string, bool)) string {
	if !strings.Contains(value, "{") {
		return value
	}
	return curlyBracePattern.ReplaceAllStringFunc(value, func(match string) string {
		path := strings.TrimSpace(match[1 : len(match)-1])
		if replacement, ok := fn(path); ok {
			return replacement
		}
		return match
	})
}

// RefsIn collects references from any decoded JSON value, walking maps and
// slices. Map entries are visited in key order.
func RefsIn(value any) []string {
	var refs []string
	var walk func(v any)
	walk = func(v any) {
		switch x := v.(type) {
		case string:
			refs = append(refs, ExtractAllRefs(x)...)
		case map[string]any:
			for _, k := range SortedKeys(x) {
				walk(x[k])
			}
		case []any:
			for _, child := range x {
				walk(child)
			}
		}
	}
	walk(value)
	return refs
}

// MapStrings returns a deep copy of value with fn applied to every string.
func MapStrings(value any, fn func(string) string) any {
	switch x := value.(type) {
	case string:
		return fn(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[k] = MapStrings(v, fn)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = MapStrings(v, fn)
		}
		return out
	default:
		return value
	}
}
