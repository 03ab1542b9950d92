/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package build_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tessera/build"
	"bennypowers.dev/tessera/cache"
	"bennypowers.dev/tessera/config"
	"bennypowers.dev/tessera/convert"
	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/internal/mapfs"
	"bennypowers.dev/tessera/testutil"
	"bennypowers.dev/tessera/token"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func projectOptions() build.Options {
	return build.Options{
		Root:         "/project",
		TokensDir:    "/project/tokens",
		OutputDir:    "/project/build",
		Prefix:       "ds",
		CustomPrefix: "app",
		Formats: []convert.Format{
			convert.FormatCSS, convert.FormatSCSS, convert.FormatJS,
			convert.FormatTS, convert.FormatJSON,
		},
		Figma:   true,
		Version: "v1.2.3",
		Now:     fixedNow,
	}
}

func outputsByPath(res *build.Result) map[string]string {
	m := make(map[string]string, len(res.Outputs))
	for _, o := range res.Outputs {
		m[o.Path] = string(o.Data)
	}
	return m
}

func readOutput(t *testing.T, mfs *mapfs.MapFileSystem, rel string) string {
	t.Helper()
	data, err := mfs.ReadFile("/project/build/" + rel)
	require.NoError(t, err, rel)
	return string(data)
}

func TestBuild_OutputLayout(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")

	res, err := build.Build(context.Background(), mfs, projectOptions())
	require.NoError(t, err)

	var paths []string
	for _, o := range res.Outputs {
		paths = append(paths, o.Path)
	}
	slices.Sort(paths)
	want := []string{
		"brands/acme/dark.css", "brands/acme/dark.scss", "brands/acme/dark.tokens.json",
		"brands/acme/light.css", "brands/acme/light.scss", "brands/acme/light.tokens.json",
		"brands/globex/dark.css", "brands/globex/dark.scss", "brands/globex/dark.tokens.json",
		"brands/globex/light.css", "brands/globex/light.scss", "brands/globex/light.tokens.json",
		"css/dark.css", "css/light.css",
		"figma/tokens.json",
		"js/tokens-dark.js", "js/tokens.js",
		"json/dark.tokens.json", "json/light.tokens.json",
		"scss/_dark.scss", "scss/_light.scss",
		"ts/tokens-dark.ts", "ts/tokens.ts",
	}
	assert.Equal(t, want, paths)

	for _, p := range want {
		assert.True(t, mfs.Exists("/project/build/"+p), "missing %s", p)
	}
	assert.Len(t, res.Figma.Filled, 16)
	assert.Empty(t, res.Unresolved)
}

func TestBuild_CSSValues(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	_, err := build.Build(context.Background(), mfs, projectOptions())
	require.NoError(t, err)

	light := readOutput(t, mfs, "css/light.css")
	assert.True(t, strings.HasPrefix(light, "/*\n * Generated by tessera v1.2.3.\n * Do not edit directly.\n */\n\n:root {\n"), light)
	for _, want := range []string{
		"  /* Page background */\n  --ds-color-surface-primary: #ffffff;\n",
		"  --ds-color-text-primary: #212529;\n",
		"  --ds-button-background: #0066cc;\n",
		"  --ds-button-padding: 1rem;\n",
		"  --app-spacing-gutter: 0.25rem;\n",
		"  --ds-shadow-sm: 0 1px 2px #000000;\n",
	} {
		assert.Contains(t, light, want)
	}

	dark := readOutput(t, mfs, "css/dark.css")
	assert.Contains(t, dark, "[data-theme=\"dark\"] {\n")
	assert.Contains(t, dark, "  --ds-color-surface-primary: #212529;\n")

	acme := readOutput(t, mfs, "brands/acme/light.css")
	assert.Contains(t, acme, "[data-brand=\"acme\"] {\n")
	assert.Contains(t, acme, "  --ds-text-primary: #123456;\n")
	assert.Contains(t, acme, "  --ds-brand-primary: #123456;\n")

	acmeDark := readOutput(t, mfs, "brands/acme/dark.css")
	assert.Contains(t, acmeDark, "[data-brand=\"acme\"][data-theme=\"dark\"] {\n")
	assert.Contains(t, acmeDark, "  --ds-text-primary: #ffffff;\n")
	assert.NotContains(t, acmeDark, "--ds-overlay-backdrop")

	globex := readOutput(t, mfs, "brands/globex/light.css")
	assert.Contains(t, globex, "  --ds-brand-primary: #ff6b35;\n")
	assert.NotContains(t, globex, "#123456")
}

func TestBuild_OutputReferences(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	opts := projectOptions()
	opts.OutputReferences = true
	_, err := build.Build(context.Background(), mfs, opts)
	require.NoError(t, err)

	light := readOutput(t, mfs, "css/light.css")
	assert.Contains(t, light, "  --ds-color-surface-primary: var(--ds-color-white);\n")
	assert.Contains(t, light, "  --app-spacing-gutter: var(--ds-spacing-xs);\n")

	scss := readOutput(t, mfs, "scss/_light.scss")
	assert.Contains(t, scss, "$ds-color-surface-primary: $ds-color-white;\n")
	assert.Less(t, strings.Index(scss, "$ds-color-white:"), strings.Index(scss, "$ds-color-surface-primary:"))
}

func TestBuild_JSON(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	_, err := build.Build(context.Background(), mfs, projectOptions())
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, mfs, "json/dark.tokens.json")), &tree))
	surface := tree["color"].(map[string]any)["surface"].(map[string]any)["primary"].(map[string]any)
	assert.Equal(t, "#212529", surface["$value"])

	ts := readOutput(t, mfs, "ts/tokens.ts")
	assert.Contains(t, ts, "export const dsColorSurfacePrimary = \"#ffffff\" as const;\n")
	assert.Contains(t, ts, "export type TokenName = keyof typeof tokens;\n")
}

func TestBuild_Filters(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	opts := projectOptions()
	opts.Brand = "acme"
	opts.Themes = []token.Theme{token.ThemeDark}
	res, err := build.Build(context.Background(), mfs, opts)
	require.NoError(t, err)

	out := outputsByPath(res)
	assert.Contains(t, out, "css/dark.css")
	assert.Contains(t, out, "js/tokens.js", "the only selected theme is the primary module")
	assert.Contains(t, out, "brands/acme/dark.css")
	assert.NotContains(t, out, "css/light.css")
	assert.NotContains(t, out, "brands/globex/dark.css")
	assert.Len(t, res.Figma.Filled, 4, "acme dark lacks four semantic categories")
}

func TestBuild_UnknownBrand(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	opts := projectOptions()
	opts.Brand = "initech"
	_, err := build.Build(context.Background(), mfs, opts)
	assert.Error(t, err)
}

func TestBuild_BrandsConfig(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	opts := projectOptions()
	opts.Brands = &config.Brands{Brands: map[string]config.Brand{
		"acme":   {Name: "ACME Corp", Enabled: true, Themes: []string{"light"}},
		"globex": {Name: "Globex", Enabled: false},
	}}
	res, err := build.Build(context.Background(), mfs, opts)
	require.NoError(t, err)

	out := outputsByPath(res)
	assert.Contains(t, out, "brands/acme/light.css")
	assert.NotContains(t, out, "brands/acme/dark.css")
	assert.NotContains(t, out, "brands/globex/light.css")
	assert.Contains(t, out["figma/tokens.json"], "\"ACME Corp\"")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out["figma/tokens.json"]), &doc))
	acme := doc["Brands"].(map[string]any)["ACME Corp"].(map[string]any)
	assert.Contains(t, acme, "Light")
	assert.NotContains(t, acme, "Dark", "acme is configured for light only")
	for _, f := range doc["$metadata"].(map[string]any)["filled"].([]any) {
		assert.NotContains(t, f, "ACME Corp/Dark")
	}

	fo := opts.FigmaBuildOptions(token.Themes)
	assert.Equal(t, []token.Theme{token.ThemeLight}, fo.BrandThemes["acme"])
	assert.Equal(t, token.Themes, fo.BrandThemes["globex"])
}

func TestBuild_DryRun(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	before := mfs.Files()

	opts := projectOptions()
	opts.DryRun = true
	res, err := build.Build(context.Background(), mfs, opts)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Outputs)
	assert.Equal(t, before, mfs.Files(), "dry run must not touch disk")
}

func TestBuild_Cache(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	cachePath := "/project/" + cache.DefaultDir + "/" + cache.FileName

	_, err := build.Build(context.Background(), mfs, projectOptions())
	require.NoError(t, err)
	require.True(t, mfs.Exists(cachePath))

	c := cache.Open(mfs, "/project/"+cache.DefaultDir)
	data, err := mfs.ReadFile("/project/tokens/primitives/x-dtcg.json")
	require.NoError(t, err)
	_, ok := c.Lookup("primitives/x-dtcg.json", data)
	assert.True(t, ok, "primitives should be cached")

	require.NoError(t, mfs.WriteFile(cachePath, []byte("stale"), 0o644))
	opts := projectOptions()
	opts.CleanCache = true
	_, err = build.Build(context.Background(), mfs, opts)
	require.NoError(t, err)
	data, err = mfs.ReadFile(cachePath)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data), "clean cache rebuilds the cache from scratch")

	require.NoError(t, cache.Clean(mfs, "/project/"+cache.DefaultDir))
	opts = projectOptions()
	opts.NoCache = true
	_, err = build.Build(context.Background(), mfs, opts)
	require.NoError(t, err)
	assert.False(t, mfs.Exists(cachePath), "no cache skips reading and writing the cache")
}

func TestBuild_ParseErrorAborts(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	mfs.AddFile("/project/tokens/semantic/broken.json", "{ not json", 0o644)

	_, err := build.Build(context.Background(), mfs, projectOptions())
	require.Error(t, err)
	assert.False(t, mfs.Exists("/project/build/css/light.css"), "no outputs on failure")
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		v      build.Variant
		format convert.Format
		want   string
		ok     bool
	}{
		{build.Variant{Theme: token.ThemeLight}, convert.FormatCSS, "css/light.css", true},
		{build.Variant{Theme: token.ThemeDark}, convert.FormatSCSS, "scss/_dark.scss", true},
		{build.Variant{Theme: token.ThemeLight}, convert.FormatTS, "ts/tokens.ts", true},
		{build.Variant{Theme: token.ThemeDark}, convert.FormatJS, "js/tokens-dark.js", true},
		{build.Variant{Theme: token.ThemeLight}, convert.FormatFlatJSON, "json/light.json", true},
		{build.Variant{Brand: "acme", Theme: token.ThemeDark}, convert.FormatJSON, "brands/acme/dark.tokens.json", true},
		{build.Variant{Brand: "acme", Theme: token.ThemeDark}, convert.FormatJS, "", false},
	}
	for _, tt := range tests {
		got, ok := build.OutputPath(tt.v, tt.format, token.ThemeLight)
		assert.Equal(t, tt.ok, ok, "%v %s", tt.v, tt.format)
		assert.Equal(t, tt.want, got, "%v %s", tt.v, tt.format)
	}
}
