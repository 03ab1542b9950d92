/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package list provides the list command for tessera.
package list

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	buildlib "bennypowers.dev/tessera/build"
	"bennypowers.dev/tessera/cmd/project"
	"bennypowers.dev/tessera/config"
	"bennypowers.dev/tessera/convert"
	"bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/resolver"
	"bennypowers.dev/tessera/source"
	"bennypowers.dev/tessera/token"
)

// Cmd is the list cobra command.
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List tokens of the project",
	Long: `List the tokens of the project with optional filtering and formatting.

With --resolved the tokens of one build variant are listed with their
resolved values: the default design system, or the brand given by --brand,
in the first theme given by --theme.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("type", "", "Filter by token type")
	Cmd.Flags().String("layer", "", "Filter by layer: primitive, semantic, component, custom, brand")
	Cmd.Flags().StringP("brand", "b", "", "Filter by brand directory")
	Cmd.Flags().StringP("theme", "t", "", "Filter by theme: light, dark")
	Cmd.Flags().Bool("resolved", false, "Show resolved values")
	Cmd.Flags().String("format", "table", "Output format: table, json, css")
}

// filter selects tokens. Zero fields match everything.
type filter struct {
	Type  string
	Layer token.Layer
	Brand string
	Theme token.Theme
}

func run(cmd *cobra.Command, args []string) error {
	typeFilter, _ := cmd.Flags().GetString("type")
	layerFlag, _ := cmd.Flags().GetString("layer")
	brand, _ := cmd.Flags().GetString("brand")
	themeFlag, _ := cmd.Flags().GetString("theme")
	resolved, _ := cmd.Flags().GetBool("resolved")
	format, _ := cmd.Flags().GetString("format")

	f := filter{Type: typeFilter, Brand: brand}
	if layerFlag != "" {
		l, err := token.ParseLayer(layerFlag)
		if err != nil {
			return err
		}
		f.Layer = l
	}
	themes, err := token.ParseThemes(themeFlag)
	if err != nil {
		return err
	}
	if themeFlag != "" && themeFlag != "all" {
		f.Theme = themes[0]
	}

	filesystem := fs.NewOSFileSystem()
	p, err := project.Load(filesystem, project.FlagsFromViper())
	if err != nil {
		return err
	}
	opts, err := p.BuildOptions()
	if err != nil {
		return err
	}
	if opts.Brands, err = config.LoadBrands(filesystem, p.BrandsPath()); err != nil {
		return err
	}
	opts.NoCache = true

	set, _, err := buildlib.Load(cmd.Context(), filesystem, opts)
	if err != nil {
		return err
	}

	var tokens []*token.Token
	if resolved {
		tokens, err = variantTokens(set, themes[0], brand, opts.Brands)
		if err != nil {
			return err
		}
		// The variant already narrows brand and theme.
		f.Brand, f.Theme = "", token.ThemeNone
	} else {
		tokens = set.Ordered()
	}
	tokens = filterTokens(tokens, f)

	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].DotPath() < tokens[j].DotPath()
	})

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		return outputJSON(w, tokens, resolved)
	case "css":
		return outputCSS(w, tokens, opts.Prefix)
	default:
		return outputTable(w, tokens, resolved)
	}
}

// variantTokens resolves the build variant for theme and brand.
func variantTokens(set *source.Set, theme token.Theme, brand string, brands *config.Brands) ([]*token.Token, error) {
	for _, v := range buildlib.Variants(set, []token.Theme{theme}, brands) {
		if v.Brand != brand {
			continue
		}
		tokens := resolver.Clone(v.Tokens)
		if _, err := resolver.ResolveAliases(tokens); err != nil {
			return nil, fmt.Errorf("%s: %w", v, err)
		}
		return tokens, nil
	}
	return nil, fmt.Errorf("no %s variant for brand %q", theme, brand)
}

func filterTokens(tokens []*token.Token, f filter) []*token.Token {
	filtered := make([]*token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if f.Type != "" && tok.Type != f.Type {
			continue
		}
		if f.Layer != token.LayerUnknown && tok.Layer != f.Layer {
			continue
		}
		if f.Brand != "" && tok.Brand != f.Brand {
			continue
		}
		if f.Theme != token.ThemeNone && tok.Theme != token.ThemeNone && tok.Theme != f.Theme {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

func displayValue(tok *token.Token, resolved bool) string {
	if resolved {
		return tok.CSSValue()
	}
	return token.CSSValue(tok.Type, tok.Source())
}

func outputTable(w io.Writer, tokens []*token.Token, resolved bool) error {
	for _, tok := range tokens {
		typeStr := tok.Type
		if typeStr == "" {
			typeStr = "-"
		}
		if _, err := fmt.Fprintf(w, "%-40s %-12s %-10s %s\n", tok.DotPath(), typeStr, tok.Layer, displayValue(tok, resolved)); err != nil {
			return err
		}
	}
	return nil
}

func outputJSON(w io.Writer, tokens []*token.Token, resolved bool) error {
	type tokenOutput struct {
		Name        string `json:"name"`
		Value       string `json:"value"`
		Type        string `json:"type,omitempty"`
		Layer       string `json:"layer"`
		Brand       string `json:"brand,omitempty"`
		Theme       string `json:"theme,omitempty"`
		File        string `json:"file"`
		Description string `json:"description,omitempty"`
	}

	output := make([]tokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, tokenOutput{
			Name:        tok.DotPath(),
			Value:       displayValue(tok, resolved),
			Type:        tok.Type,
			Layer:       tok.Layer.String(),
			Brand:       tok.Brand,
			Theme:       string(tok.Theme),
			File:        tok.FilePath,
			Description: tok.Description,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputCSS(w io.Writer, tokens []*token.Token, prefix string) error {
	data, err := convert.FormatTokens(tokens, convert.FormatCSS, convert.Options{Prefix: prefix, Delimiter: "-"})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
