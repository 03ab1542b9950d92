/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package figma

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Top-level collections of the output tree.
const (
	Global      = "Global"
	Brands      = "Brands"
	Primitives  = "Primitives"
	Semantic    = "Semantic"
	Components  = "Components"
	Custom      = "Custom"
	BrandColors = "Brand Colors"
)

// categoryNames maps source category keys to output collection names.
var categoryNames = map[string]string{
	"color":       "Colors",
	"spacing":     "Spacing",
	"shadow":      "Shadows",
	"radius":      "Radius",
	"typography":  "Typography",
	"brand":       BrandColors,
	"surface":     "Surfaces",
	"text":        "Text",
	"border":      "Borders",
	"interactive": "Interactive",
	"focus":       "Focus",
	"overlay":     "Overlay",
}

// semanticKeys are the source keys of theme-dependent categories.
var semanticKeys = map[string]bool{
	"surface":     true,
	"text":        true,
	"border":      true,
	"interactive": true,
	"focus":       true,
	"overlay":     true,
}

// SemanticCategories lists the categories every brand theme is expected
// to define, in output order.
var SemanticCategories = []string{"Surfaces", "Text", "Borders", "Interactive", "Focus", "Overlay"}

// sizeScale is shared by spacing and radius.
var sizeScale = map[string]string{
	"none": "None",
	"2xs":  "2XS",
	"xs":   "XS",
	"sm":   "SM",
	"md":   "MD",
	"lg":   "LG",
	"xl":   "XL",
	"2xl":  "2XL",
	"3xl":  "3XL",
	"4xl":  "4XL",
	"full": "Full",
}

var typographyScale = map[string]string{
	"2xs": "2xs",
	"xs":  "Xs",
	"sm":  "Sm",
	"md":  "Md",
	"lg":  "Lg",
	"xl":  "Xl",
	"2xl": "2xl",
	"3xl": "3xl",
	"4xl": "4xl",
}

// scales maps a source category key to its segment table.
var scales = map[string]map[string]string{
	"spacing":    sizeScale,
	"radius":     sizeScale,
	"typography": typographyScale,
}

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	wordSplit     = regexp.MustCompile(`[-_\s]+`)
	titleCaser    = cases.Title(language.English, cases.NoLower)
)

// normalizeKey folds plural and case variants of a category key.
func normalizeKey(key string) string {
	k := strings.ToLower(key)
	if _, ok := categoryNames[k]; ok {
		return k
	}
	if s := strings.TrimSuffix(k, "s"); s != k {
		if _, ok := categoryNames[s]; ok {
			return s
		}
	}
	return k
}

// IsSemanticKey reports whether key names a theme-dependent category.
func IsSemanticKey(key string) bool {
	return semanticKeys[normalizeKey(key)]
}

// CategoryName returns the output name for a source category key.
func CategoryName(key string) string {
	if name, ok := categoryNames[normalizeKey(key)]; ok {
		return name
	}
	return TitleCase(key)
}

// SegmentName returns the output name for a segment below category.
// Numeric segments are unchanged.
func SegmentName(category, seg string) string {
	if table, ok := scales[normalizeKey(category)]; ok {
		if name, ok := table[strings.ToLower(seg)]; ok {
			return name
		}
	}
	return TitleCase(seg)
}

// TitleCase turns a key such as "font-size", "font_size" or "fontSize"
// into "Font Size". Words starting with a digit are left as written.
func TitleCase(s string) string {
	s = camelBoundary.ReplaceAllString(s, "$1 $2")
	words := wordSplit.Split(strings.TrimSpace(s), -1)
	out := words[:0]
	for _, w := range words {
		if w == "" {
			continue
		}
		if unicode.IsDigit(rune(w[0])) {
			out = append(out, w)
			continue
		}
		out = append(out, titleCaser.String(w))
	}
	return strings.Join(out, " ")
}

// CategoryPath names a category key and the segments below it.
func CategoryPath(segs []string) []string {
	if len(segs) == 0 {
		return nil
	}
	out := make([]string, 0, len(segs))
	out = append(out, CategoryName(segs[0]))
	for _, seg := range segs[1:] {
		out = append(out, SegmentName(segs[0], seg))
	}
	return out
}

// SemanticPath names semantic segments, dropping a leading "color" when
// followed by a semantic category ("color.surface.primary" becomes
// Surfaces/Primary).
func SemanticPath(segs []string) []string {
	if len(segs) > 1 && normalizeKey(segs[0]) == "color" && IsSemanticKey(segs[1]) {
		segs = segs[1:]
	}
	return CategoryPath(segs)
}

// BrandName returns the display name for a brand directory.
func BrandName(dir string) string {
	return TitleCase(dir)
}
