/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package validate

import (
	"bytes"
	"testing"

	"bennypowers.dev/tessera/validator"
)

func TestReport(t *testing.T) {
	findings := []validator.ValidationError{
		{FilePath: "primitives/colors.json", Path: "color.bad", Message: `invalid color "#ggg"`},
		{FilePath: "brands/acme", Path: "Acme/Dark/Focus", Message: "missing Focus category", Severity: validator.SeverityWarning},
	}

	var out, errOut bytes.Buffer
	report(&out, &errOut, findings, false)
	if got, want := errOut.String(), "error: primitives/colors.json: color.bad: invalid color \"#ggg\"\n"; got != want {
		t.Errorf("errors = %q, want %q", got, want)
	}
	if got, want := out.String(), "warning: brands/acme: Acme/Dark/Focus: missing Focus category\n"; got != want {
		t.Errorf("warnings = %q, want %q", got, want)
	}

	out.Reset()
	errOut.Reset()
	report(&out, &errOut, findings, true)
	if out.Len() != 0 {
		t.Errorf("quiet report printed warnings: %q", out.String())
	}
	if errOut.Len() == 0 {
		t.Error("quiet report dropped errors")
	}
}
