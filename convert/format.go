/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package convert

import (
	"fmt"
	"strings"

	"bennypowers.dev/tessera/convert/formatter"
	"bennypowers.dev/tessera/convert/formatter/css"
	"bennypowers.dev/tessera/convert/formatter/dtcg"
	"bennypowers.dev/tessera/convert/formatter/flatjson"
	"bennypowers.dev/tessera/convert/formatter/js"
	"bennypowers.dev/tessera/convert/formatter/scss"
	"bennypowers.dev/tessera/token"
)

// Format represents an output format for token serialization.
type Format string

const (
	// FormatCSS outputs CSS custom properties.
	FormatCSS Format = "css"

	// FormatSCSS outputs SCSS variables with kebab-case names.
	FormatSCSS Format = "scss"

	// FormatJS outputs an ES module of camelCase constants.
	FormatJS Format = "js"

	// FormatTS outputs a TypeScript ES module with const assertions.
	FormatTS Format = "ts"

	// FormatJSON outputs nested DTCG JSON with resolved values.
	FormatJSON Format = "json"

	// FormatFlatJSON outputs flat key-value JSON.
	FormatFlatJSON Format = "flat-json"
)

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	return []string{
		string(FormatCSS),
		string(FormatSCSS),
		string(FormatJS),
		string(FormatTS),
		string(FormatJSON),
		string(FormatFlatJSON),
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "css", "":
		return FormatCSS, nil
	case "scss", "sass":
		return FormatSCSS, nil
	case "js", "javascript", "esm":
		return FormatJS, nil
	case "ts", "typescript":
		return FormatTS, nil
	case "json", "dtcg":
		return FormatJSON, nil
	case "flat-json", "flat":
		return FormatFlatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid: %s)", s, strings.Join(ValidFormats(), ", "))
	}
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var formats []Format
	seen := make(map[Format]bool)
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// Extension returns the file extension for format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatSCSS:
		return ".scss"
	case FormatJS:
		return ".js"
	case FormatTS:
		return ".ts"
	case FormatJSON:
		return ".tokens.json"
	case FormatFlatJSON:
		return ".json"
	default:
		return ".css"
	}
}

// FormatTokens converts tokens to the specified output format.
func FormatTokens(tokens []*token.Token, format Format, opts Options) ([]byte, error) {
	fmtOpts := formatter.Options{
		Prefix:           opts.Prefix,
		Delimiter:        opts.Delimiter,
		Header:           opts.Header,
		OutputReferences: opts.OutputReferences,
	}

	var f formatter.Formatter
	switch format {
	case FormatCSS:
		f = css.NewWithOptions(css.Options{Selector: opts.Selector})
	case FormatSCSS:
		f = scss.New()
	case FormatJS:
		f = js.NewWithOptions(js.Options{Module: js.ModuleESM, Types: js.TypesJSDoc})
	case FormatTS:
		f = js.NewWithOptions(js.Options{Module: js.ModuleESM, Types: js.TypesTS})
	case FormatJSON:
		f = dtcg.New(func(t []*token.Token) map[string]any {
			return Serialize(t, opts)
		})
	case FormatFlatJSON:
		f = flatjson.New()
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return f.Format(tokens, fmtOpts)
}
