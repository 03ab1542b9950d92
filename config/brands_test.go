/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tessera/internal/logger"
	"bennypowers.dev/tessera/testutil"
	"bennypowers.dev/tessera/token"
)

func TestGenerateBrands(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")

	b, err := GenerateBrands(mfs, "/project/tokens")
	require.NoError(t, err)

	assert.Equal(t, []string{"acme", "globex"}, b.Enabled())
	acme := b.Brands["acme"]
	assert.Equal(t, "Acme", acme.Name)
	assert.Equal(t, []string{"colors.json", "theme-dark.json", "theme-light.json"}, acme.Include)
	assert.Equal(t, []string{"light", "dark"}, acme.Themes)
}

func TestEnsureBrands_WritesUnlessDryRun(t *testing.T) {
	var out bytes.Buffer
	logger.SetOutput(&out)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	mfs := testutil.NewFixtureFS(t, "project", "/project")
	path := "/project/" + BrandsFileName

	_, err := EnsureBrands(mfs, "/project", "/project/tokens", true)
	require.NoError(t, err)
	assert.False(t, mfs.Exists(path), "dry run must not write")

	b, err := EnsureBrands(mfs, "/project", "/project/tokens", false)
	require.NoError(t, err)
	assert.True(t, mfs.Exists(path))

	reloaded, err := LoadBrands(mfs, path)
	require.NoError(t, err)
	assert.Equal(t, b, reloaded)
}

func TestEnsureBrands_KeepsExisting(t *testing.T) {
	mfs := testutil.NewMapFS(t, map[string]string{
		"/p/" + BrandsFileName: `{"brands": {"acme": {"name": "ACME Corp", "enabled": false}}}`,
	})
	b, err := EnsureBrands(mfs, "/p", "/p/tokens", false)
	require.NoError(t, err)
	assert.Empty(t, b.Enabled())
	assert.Equal(t, map[string]string{"acme": "ACME Corp"}, b.Names())
}

func TestLoadBrands_Invalid(t *testing.T) {
	tests := map[string]string{
		"syntax":    `{"brands": `,
		"bad theme": `{"brands": {"acme": {"enabled": true, "themes": ["sepia"]}}}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			mfs := testutil.NewMapFS(t, map[string]string{"/p/b.json": content})
			_, err := LoadBrands(mfs, "/p/b.json")
			assert.True(t, errors.Is(err, ErrInvalidBrandsConfig), "got %v", err)
		})
	}
}

func TestBrands_Includes(t *testing.T) {
	b := &Brands{Brands: map[string]Brand{
		"acme":    {Enabled: true, Include: []string{"colors.json"}},
		"globex":  {Enabled: false},
		"initech": {Enabled: true},
	}}
	tests := map[string]bool{
		"primitives/x-dtcg.json":         true,
		"brands/acme/colors.json":        true,
		"brands/acme/theme-light.json":   false,
		"brands/globex/colors.json":      false,
		"brands/initech/theme-dark.json": true,
		"brands/unknown/colors.json":     true,
	}
	for rel, want := range tests {
		assert.Equal(t, want, b.Includes(rel), rel)
	}
}

func TestBrands_Themes(t *testing.T) {
	b := &Brands{Brands: map[string]Brand{
		"acme":   {Themes: []string{"dark"}},
		"globex": {Themes: []string{"all", "light"}},
	}}
	assert.Equal(t, []token.Theme{token.ThemeDark}, b.Themes("acme"))
	assert.Equal(t, []token.Theme{token.ThemeLight, token.ThemeDark}, b.Themes("globex"))
	assert.Equal(t, token.Themes, b.Themes("initech"))
}
