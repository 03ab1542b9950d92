/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator checks a loaded token set for authoring mistakes that a
// build would otherwise paper over.
package validator

import (
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"

	"bennypowers.dev/tessera/build"
	"bennypowers.dev/tessera/config"
	"bennypowers.dev/tessera/figma"
	"bennypowers.dev/tessera/resolver"
	"bennypowers.dev/tessera/source"
	"bennypowers.dev/tessera/token"
)

// DefaultMinContrast is the WCAG AA ratio for body text.
const DefaultMinContrast = 4.5

// Severity grades a finding.
type Severity int

const (
	// SeverityError fails validation.
	SeverityError Severity = iota
	// SeverityWarning fails validation only in strict mode.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ValidationError represents one finding.
type ValidationError struct {
	// FilePath is the path to the file containing the error.
	FilePath string
	// Path is the dot path of the problematic token.
	Path string
	// Message describes what's wrong.
	Message string
	// Suggestion provides an actionable fix.
	Suggestion string
	// Severity grades the finding.
	Severity Severity
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.FilePath != "" {
		sb.WriteString(e.FilePath)
		sb.WriteString(": ")
	}
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Options configures Validate.
type Options struct {
	// Themes limits the checked themes. Empty means both.
	Themes []token.Theme
	// Brands supplies display names and per-brand themes.
	Brands *config.Brands
	// MinContrast is the lowest accepted text/surface ratio. Zero means
	// DefaultMinContrast.
	MinContrast float64
}

// Failed reports whether findings should fail a run.
func Failed(findings []ValidationError, strict bool) bool {
	for _, f := range findings {
		if f.Severity == SeverityError || strict {
			return true
		}
	}
	return false
}

// Validate runs every check over set and returns the findings sorted by
// file and path.
func Validate(set *source.Set, opts Options) []ValidationError {
	if len(opts.Themes) == 0 {
		opts.Themes = token.Themes
	}
	if opts.MinContrast == 0 {
		opts.MinContrast = DefaultMinContrast
	}

	c := &collector{seen: map[string]bool{}}
	categories := knownCategories(set.Ordered())

	checkColors(c, set.Ordered())
	for _, v := range build.Variants(set, opts.Themes, opts.Brands) {
		tokens := resolver.Clone(v.Tokens)
		if cycle := resolver.BuildDependencyGraph(tokens).FindCycle(); cycle != nil {
			c.add(ValidationError{
				Path:       cycle[0],
				Message:    "circular reference: " + strings.Join(cycle, " -> "),
				Suggestion: "break the cycle with a literal value",
			}, tokenFile(tokens, cycle[0]))
			continue
		}
		result, err := resolver.ResolveAliases(tokens)
		if err != nil {
			c.add(ValidationError{Message: fmt.Sprintf("%s: %v", v, err)}, "")
			continue
		}
		checkReferences(c, result, categories)
		checkContrast(c, v, tokens, opts.MinContrast)
	}
	checkGaps(c, set, opts)

	sort.SliceStable(c.findings, func(i, j int) bool {
		a, b := c.findings[i], c.findings[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Message < b.Message
	})
	return c.findings
}

// collector drops findings repeated across variants.
type collector struct {
	findings []ValidationError
	seen     map[string]bool
}

func (c *collector) add(e ValidationError, file string) {
	if e.FilePath == "" {
		e.FilePath = file
	}
	key := e.Error()
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.findings = append(c.findings, e)
}

func tokenFile(tokens []*token.Token, dotPath string) string {
	for _, t := range tokens {
		if t.DotPath() == dotPath {
			return t.FilePath
		}
	}
	return ""
}

func knownCategories(tokens []*token.Token) map[string]bool {
	cats := map[string]bool{}
	for _, t := range tokens {
		if len(t.Path) > 0 {
			cats[t.Path[0]] = true
		}
	}
	return cats
}

func checkReferences(c *collector, result *resolver.Result, categories map[string]bool) {
	for _, u := range result.Unresolved {
		cat, _, _ := strings.Cut(u.Ref, ".")
		e := ValidationError{
			Path:       u.Token.DotPath(),
			Message:    fmt.Sprintf("unresolved reference {%s}", u.Ref),
			Suggestion: "define the token or fix the reference",
		}
		if !categories[cat] {
			known := make([]string, 0, len(categories))
			for k := range categories {
				known = append(known, k)
			}
			sort.Strings(known)
			e.Message = fmt.Sprintf("reference {%s} has unknown category %q", u.Ref, cat)
			e.Suggestion = "known categories: " + strings.Join(known, ", ")
		}
		c.add(e, u.Token.FilePath)
	}
}

// colorFunctions are CSS values the parser cannot evaluate statically.
var colorFunctions = []string{"var(", "color-mix(", "light-dark(", "currentcolor", "inherit"}

func checkColors(c *collector, tokens []*token.Token) {
	for _, t := range tokens {
		if t.Type != token.TypeColor {
			continue
		}
		s, ok := t.Source().(string)
		if !ok || token.IsCurlyBraceRef(s) || dynamicColor(s) {
			continue
		}
		if _, err := csscolorparser.Parse(s); err != nil {
			c.add(ValidationError{
				Path:       t.DotPath(),
				Message:    fmt.Sprintf("invalid color %q", s),
				Suggestion: "use a hex, rgb(), hsl() or named CSS color",
			}, t.FilePath)
		}
	}
}

func dynamicColor(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, fn := range colorFunctions {
		if strings.HasPrefix(lower, fn) {
			return true
		}
	}
	return false
}

func checkGaps(c *collector, set *source.Set, opts Options) {
	var names map[string]string
	if opts.Brands != nil {
		names = opts.Brands.Names()
	}
	router := figma.NewRouter(names)
	router.Route(set.Ordered())

	dirs := map[string]string{}
	for _, dir := range set.Brands() {
		dirs[router.Brand(dir)] = dir
	}
	for _, gap := range figma.Gaps(router.Tree(), opts.Themes) {
		dir := dirs[gap.Brand]
		if opts.Brands != nil && !slices.Contains(opts.Brands.Themes(dir), gap.Theme) {
			continue
		}
		c.add(ValidationError{
			Path:       gap.String(),
			Message:    fmt.Sprintf("missing %s category", gap.Category),
			Suggestion: "add it to the brand theme file or it will be filled with the fallback palette",
			Severity:   SeverityWarning,
		}, path.Join(source.BrandsDir, dir))
	}
}

// checkContrast compares every resolved text color with the surface color
// at the same position, e.g. color.text.primary on color.surface.primary.
func checkContrast(c *collector, v build.Variant, tokens []*token.Token, threshold float64) {
	byPath := make(map[string]*token.Token, len(tokens))
	for _, t := range tokens {
		byPath[t.DotPath()] = t
	}
	for _, text := range tokens {
		i := slices.Index(text.Path, "text")
		if i < 0 || text.Type != token.TypeColor {
			continue
		}
		surfacePath := slices.Clone(text.Path)
		surfacePath[i] = "surface"
		surface, ok := byPath[strings.Join(surfacePath, ".")]
		if !ok {
			continue
		}
		ratio, ok := Contrast(text.CSSValue(), surface.CSSValue())
		if !ok || ratio >= threshold {
			continue
		}
		c.add(ValidationError{
			Path:       text.DotPath(),
			Message:    fmt.Sprintf("%s contrast %.2f:1 against %s is below %.1f:1", v, ratio, surface.DotPath(), threshold),
			Suggestion: "darken the text or lighten the surface",
			Severity:   SeverityWarning,
		}, text.FilePath)
	}
}

// Contrast returns the WCAG contrast ratio of two CSS colors. Colors that
// do not parse or are translucent report false.
func Contrast(a, b string) (float64, bool) {
	la, ok := luminance(a)
	if !ok {
		return 0, false
	}
	lb, ok := luminance(b)
	if !ok {
		return 0, false
	}
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05), true
}

func luminance(s string) (float64, bool) {
	parsed, err := csscolorparser.Parse(s)
	if err != nil || parsed.A < 1 {
		return 0, false
	}
	r, g, b := colorful.Color{R: parsed.R, G: parsed.G, B: parsed.B}.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b, true
}
