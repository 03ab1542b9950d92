/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package brands

import (
	"bytes"
	"testing"

	"bennypowers.dev/tessera/config"
)

func TestPrintBrands(t *testing.T) {
	t.Run("defaults without config", func(t *testing.T) {
		var buf bytes.Buffer
		printBrands(&buf, []string{"acme"}, nil)
		want := "acme                 Acme                     enabled   light,dark\n"
		if got := buf.String(); got != want {
			t.Errorf("printBrands() = %q, want %q", got, want)
		}
	})

	t.Run("config overrides", func(t *testing.T) {
		b := &config.Brands{Brands: map[string]config.Brand{
			"acme":   {Name: "ACME Corp", Enabled: true, Themes: []string{"dark"}},
			"globex": {Name: "Globex", Enabled: false},
		}}
		var buf bytes.Buffer
		printBrands(&buf, []string{"acme", "globex"}, b)
		want := "acme                 ACME Corp                enabled   dark\n" +
			"globex               Globex                   disabled  light,dark\n"
		if got := buf.String(); got != want {
			t.Errorf("printBrands() =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("no brands", func(t *testing.T) {
		var buf bytes.Buffer
		printBrands(&buf, nil, nil)
		if got := buf.String(); got != "no brands found\n" {
			t.Errorf("printBrands() = %q", got)
		}
	})
}
