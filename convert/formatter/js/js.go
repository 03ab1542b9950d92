/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package js provides JavaScript and TypeScript module formatting for design tokens.
// It supports ESM/CommonJS modules and TypeScript/JSDoc types.
package js

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"bennypowers.dev/tessera/convert/formatter"
	"bennypowers.dev/tessera/token"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Module specifies the JavaScript module system.
type Module string

const (
	// ModuleESM uses ES Modules (default).
	ModuleESM Module = "esm"
	// ModuleCJS uses CommonJS.
	ModuleCJS Module = "cjs"
)

// Types specifies the type annotation system.
type Types string

const (
	// TypesTS uses TypeScript annotations (default).
	TypesTS Types = "ts"
	// TypesJSDoc uses JSDoc annotations.
	TypesJSDoc Types = "jsdoc"
)

// Options configures the JS formatter.
type Options struct {
	// Module specifies the module format: "esm" (default), "cjs".
	Module Module
	// Types specifies the type system: "ts" (default), "jsdoc".
	Types Types
}

// Formatter outputs JavaScript/TypeScript with configurable options.
type Formatter struct {
	opts Options
}

// New creates a new JS formatter with default options (ESM, TypeScript).
func New() *Formatter {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a new JS formatter with the specified options.
func NewWithOptions(opts Options) *Formatter {
	if opts.Module == "" {
		opts.Module = ModuleESM
	}
	if opts.Types == "" {
		opts.Types = TypesTS
	}
	return &Formatter{opts: opts}
}

type templateData struct {
	Header  string
	Decl    string
	TS      bool
	CJS     bool
	Entries []entryData
}

type entryData struct {
	Name        string
	Key         string
	Value       string
	Description string
}

// Format converts tokens to a JavaScript/TypeScript module of constants
// plus a tokens object keyed by dot path.
func (f *Formatter) Format(tokens []*token.Token, opts formatter.Options) ([]byte, error) {
	data := templateData{
		Header: formatter.FormatHeader(opts.Header, formatter.CStyleComments),
		Decl:   "export const",
		TS:     f.opts.Types == TypesTS,
		CJS:    f.opts.Module == ModuleCJS,
	}
	if data.CJS {
		data.Decl = "const"
	}
	seen := make(map[string]string)
	for _, tok := range formatter.SortTokens(tokens) {
		name := Identifier(tok, opts)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("tokens %s and %s both map to %s", prev, tok.DotPath(), name)
		}
		seen[name] = tok.DotPath()
		value, err := literal(tok)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", tok.DotPath(), err)
		}
		key, err := quote(tok.DotPath())
		if err != nil {
			return nil, err
		}
		data.Entries = append(data.Entries, entryData{
			Name:        name,
			Key:         key,
			Value:       value,
			Description: strings.ReplaceAll(strings.ReplaceAll(tok.Description, "*/", "* /"), "\n", " "),
		})
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "module.tmpl", data); err != nil {
		return nil, fmt.Errorf("rendering module: %w", err)
	}
	return append(bytes.TrimRight(buf.Bytes(), "\n"), '\n'), nil
}

// Extension returns the appropriate file extension for the configured options.
func (f *Formatter) Extension() string {
	switch {
	case f.opts.Module == ModuleCJS && f.opts.Types == TypesTS:
		return ".cts"
	case f.opts.Module == ModuleCJS && f.opts.Types == TypesJSDoc:
		return ".cjs"
	case f.opts.Types == TypesJSDoc:
		return ".js"
	default:
		return ".ts"
	}
}

// Identifier returns the camelCase constant name for tok, e.g. dsColorPrimary.
func Identifier(tok *token.Token, opts formatter.Options) string {
	prefix := tok.Prefix
	if prefix == "" {
		prefix = opts.Prefix
	}
	name := formatter.ApplyPrefixCamel(formatter.ToCamelCase(strings.Join(tok.Path, "-")), prefix)
	if name == "" {
		name = formatter.ToCamelCase(tok.Name)
	}
	if r := []rune(name); len(r) > 0 && unicode.IsDigit(r[0]) {
		name = "_" + name
	}
	return name
}

func literal(tok *token.Token) (string, error) {
	switch v := tok.Resolved().(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return quote(tok.CSSValue())
	}
}

// quote renders s as a JavaScript string literal.
func quote(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
