/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package figma

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/token"
)

// ErrMissingCategory is returned in strict mode when a brand theme lacks
// an expected semantic category.
var ErrMissingCategory = errors.New("missing semantic category")

// Swatch is one fallback color.
type Swatch struct {
	Name  string
	Value string
}

// fallbackPalettes holds the fixed colors injected for missing categories.
var fallbackPalettes = map[token.Theme]map[string][]Swatch{
	token.ThemeLight: {
		"Surfaces":    {{"Primary", "#FFFFFF"}, {"Secondary", "#F8F9FA"}, {"Tertiary", "#E9ECEF"}},
		"Text":        {{"Primary", "#212529"}, {"Secondary", "#6C757D"}, {"Disabled", "#ADB5BD"}, {"Inverse", "#FFFFFF"}},
		"Borders":     {{"Default", "#DEE2E6"}, {"Subtle", "#E9ECEF"}, {"Strong", "#ADB5BD"}},
		"Interactive": {{"Primary", "#0D6EFD"}, {"Hover", "#0B5ED7"}, {"Active", "#0A58CA"}, {"Disabled", "#6C757D"}},
		"Focus":       {{"Ring", "#0D6EFD"}, {"Offset", "#FFFFFF"}},
		"Overlay":     {{"Backdrop", "#00000080"}, {"Scrim", "#00000052"}},
	},
	token.ThemeDark: {
		"Surfaces":    {{"Primary", "#121212"}, {"Secondary", "#1E1E1E"}, {"Tertiary", "#2C2C2C"}},
		"Text":        {{"Primary", "#F8F9FA"}, {"Secondary", "#ADB5BD"}, {"Disabled", "#6C757D"}, {"Inverse", "#212529"}},
		"Borders":     {{"Default", "#495057"}, {"Subtle", "#343A40"}, {"Strong", "#6C757D"}},
		"Interactive": {{"Primary", "#4D94FF"}, {"Hover", "#6EA8FE"}, {"Active", "#9EC5FE"}, {"Disabled", "#495057"}},
		"Focus":       {{"Ring", "#6EA8FE"}, {"Offset", "#121212"}},
		"Overlay":     {{"Backdrop", "#000000B3"}, {"Scrim", "#00000080"}},
	},
}

// FallbackPalette returns the fixed swatches for a category and theme.
func FallbackPalette(theme token.Theme, category string) []Swatch {
	return fallbackPalettes[theme][category]
}

// Fill records one injected category.
type Fill struct {
	Brand    string
	Theme    token.Theme
	Category string
}

func (f Fill) String() string {
	return fmt.Sprintf("%s/%s/%s", f.Brand, f.Theme.Title(), f.Category)
}

// FillOptions configures FillMissing.
type FillOptions struct {
	// Themes limits the checked themes. Empty means both.
	Themes []token.Theme
	// BrandThemes limits the checked themes per brand display name.
	BrandThemes map[string][]token.Theme
	// Strict reports missing categories as an error instead of filling.
	Strict bool
	// Disabled skips the pass.
	Disabled bool
}

// Gaps lists the brand theme categories that are missing from tree.
func Gaps(tree token.Tree, themes []token.Theme) []Fill {
	if len(themes) == 0 {
		themes = token.Themes
	}
	brands, ok := tree.Subtree(Brands)
	if !ok {
		return nil
	}
	var gaps []Fill
	for _, brand := range token.SortedKeys(map[string]any(brands)) {
		for _, theme := range themes {
			for _, cat := range SemanticCategories {
				if !tree.Has(Brands, brand, theme.Title(), cat) {
					gaps = append(gaps, Fill{Brand: brand, Theme: theme, Category: cat})
				}
			}
		}
	}
	return gaps
}

// FillMissing injects the fallback palette into every missing brand theme
// category and returns what it filled.
func FillMissing(tree token.Tree, opts FillOptions) ([]Fill, error) {
	if opts.Disabled {
		return nil, nil
	}
	var gaps []Fill
	for _, g := range Gaps(tree, opts.Themes) {
		if allowed, ok := opts.BrandThemes[g.Brand]; ok && !slices.Contains(allowed, g.Theme) {
			continue
		}
		gaps = append(gaps, g)
	}
	if opts.Strict && len(gaps) > 0 {
		names := make([]string, len(gaps))
		for i, g := range gaps {
			names[i] = g.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrMissingCategory, strings.Join(names, ", "))
	}
	for _, g := range gaps {
		for _, sw := range FallbackPalette(g.Theme, g.Category) {
			tree.Set([]string{Brands, g.Brand, g.Theme.Title(), g.Category, sw.Name}, map[string]any{
				"$value": sw.Value,
				"$type":  token.TypeColor,
			})
		}
		logger.Warn("%s is missing %s; filled with fallback palette", g.Brand+"/"+g.Theme.Title(), g.Category)
	}
	return gaps, nil
}
