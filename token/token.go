/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package token provides DTCG design token types for the tessera pipeline.
package token

import (
	"fmt"
	"strings"
)

// Token type names from the DTCG format.
const (
	TypeColor       = "color"
	TypeDimension   = "dimension"
	TypeNumber      = "number"
	TypeString      = "string"
	TypeDuration    = "duration"
	TypeCubicBezier = "cubicBezier"
	TypeFontFamily  = "fontFamily"
	TypeFontWeight  = "fontWeight"
	TypeShadow      = "shadow"
	TypeTypography  = "typography"
	TypeBorder      = "border"
)

// Layer is the architectural layer a token file belongs to.
type Layer int

const (
	// LayerUnknown marks files outside every configured source glob.
	LayerUnknown Layer = iota
	// LayerPrimitive holds raw values with no semantic meaning.
	LayerPrimitive
	// LayerSemantic holds intent tokens that reference primitives.
	LayerSemantic
	// LayerComponent holds per-component tokens.
	LayerComponent
	// LayerCustom holds project-specific additions.
	LayerCustom
	// LayerBrand holds per-brand overrides.
	LayerBrand
)

// String returns the layer name used in config files and CLI flags.
func (l Layer) String() string {
	switch l {
	case LayerPrimitive:
		return "primitive"
	case LayerSemantic:
		return "semantic"
	case LayerComponent:
		return "component"
	case LayerCustom:
		return "custom"
	case LayerBrand:
		return "brand"
	default:
		return "unknown"
	}
}

// ParseLayer parses a layer name. Plural forms are accepted.
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSuffix(s, "s")) {
	case "primitive":
		return LayerPrimitive, nil
	case "semantic":
		return LayerSemantic, nil
	case "component":
		return LayerComponent, nil
	case "custom":
		return LayerCustom, nil
	case "brand":
		return LayerBrand, nil
	default:
		return LayerUnknown, fmt.Errorf("unknown layer: %s", s)
	}
}

// Theme is the color scheme variant a token applies to.
type Theme string

const (
	// ThemeNone marks theme-neutral tokens.
	ThemeNone Theme = ""
	// ThemeLight is the light variant.
	ThemeLight Theme = "light"
	// ThemeDark is the dark variant.
	ThemeDark Theme = "dark"
)

// Themes lists the concrete themes in output order.
var Themes = []Theme{ThemeLight, ThemeDark}

// Title returns the capitalized theme name used in output trees ("Light").
func (t Theme) Title() string {
	switch t {
	case ThemeLight:
		return "Light"
	case ThemeDark:
		return "Dark"
	default:
		return ""
	}
}

// ParseThemes parses a --theme value. "all" and "" select every theme.
func ParseThemes(s string) ([]Theme, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return Themes, nil
	case "light":
		return []Theme{ThemeLight}, nil
	case "dark":
		return []Theme{ThemeDark}, nil
	default:
		return nil, fmt.Errorf("unknown theme: %s (valid: light, dark, all)", s)
	}
}

// Token represents a design token following the DTCG specification.
// See: https://design-tokens.github.io/community-group/format/
type Token struct {
	// Name is the token's identifier (e.g., "color-primary").
	Name string `json:"name"`
	// Value is the string form of $value, empty for structured values.
	Value string `json:"$value"`
	// Type specifies the type of token (color, dimension, etc.).
	Type string `json:"$type,omitempty"`
	// Description is optional documentation for the token.
	Description string `json:"$description,omitempty"`
	// Extensions allows for custom metadata.
	Extensions map[string]any `json:"$extensions,omitempty"`
	// Deprecated indicates if this token should no longer be used.
	Deprecated bool `json:"deprecated,omitempty"`
	// DeprecationMessage provides context for deprecated tokens.
	DeprecationMessage string `json:"deprecationMessage,omitempty"`

	// FilePath is the file this token was loaded from.
	FilePath string `json:"-"`
	// Prefix is the CSS variable prefix for this token.
	Prefix string `json:"-"`
	// Path is the JSON path to this token (e.g., ["color", "primary"]).
	Path []string `json:"-"`
	// Layer is the layer of the source file.
	Layer Layer `json:"-"`
	// Brand is the brand directory name for brand-layer tokens.
	Brand string `json:"-"`
	// Theme is the theme of the source file, ThemeNone when neutral.
	Theme Theme `json:"-"`

	// RawValue is the original $value before resolution.
	RawValue any `json:"-"`
	// ResolvedValue is the value after alias resolution.
	ResolvedValue any `json:"-"`
	// IsResolved indicates if alias resolution has been performed.
	IsResolved bool `json:"-"`
	// ResolutionChain lists the dot paths followed to reach the value.
	ResolutionChain []string `json:"-"`
}

// CSSVariableName returns the CSS custom property name for this token.
// e.g., "--color-primary" or "--my-prefix-color-primary"
func (t *Token) CSSVariableName() string {
	name := t.Name
	if name == "" {
		name = strings.Join(t.Path, "-")
	}
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, ".", "-")
	if t.Prefix != "" {
		prefix := strings.ReplaceAll(t.Prefix, ".", "-")
		return "--" + prefix + "-" + name
	}
	return "--" + name
}

// DotPath returns the dot-separated path to this token.
func (t *Token) DotPath() string {
	return strings.Join(t.Path, ".")
}

// Clone returns a shallow copy with its own Path and chain slices.
func (t *Token) Clone() *Token {
	c := *t
	c.Path = append([]string(nil), t.Path...)
	c.ResolutionChain = append([]string(nil), t.ResolutionChain...)
	return &c
}

// Source returns the raw value, falling back to the string value.
func (t *Token) Source() any {
	if t.RawValue != nil {
		return t.RawValue
	}
	return t.Value
}

// Resolved returns the resolved value, falling back to the raw value.
func (t *Token) Resolved() any {
	if t.ResolvedValue != nil {
		return t.ResolvedValue
	}
	return t.Source()
}
