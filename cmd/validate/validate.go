/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for tessera.
package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	buildlib "bennypowers.dev/tessera/build"
	"bennypowers.dev/tessera/cmd/project"
	"bennypowers.dev/tessera/config"
	"bennypowers.dev/tessera/fs"
	"bennypowers.dev/tessera/token"
	"bennypowers.dev/tessera/validator"
)

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project's design tokens",
	Long: `Check every build variant for unresolved and circular references, invalid
color literals, brand themes missing semantic categories, and text colors
with too little contrast against their surface.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("strict", false, "Fail on warnings")
	Cmd.Flags().Bool("quiet", false, "Only output errors")
	Cmd.Flags().StringP("theme", "t", "all", "Themes to check: light, dark, all")
	Cmd.Flags().Float64("min-contrast", validator.DefaultMinContrast, "Lowest accepted text/surface contrast ratio")
}

func run(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	quiet, _ := cmd.Flags().GetBool("quiet")
	themeFlag, _ := cmd.Flags().GetString("theme")
	minContrast, _ := cmd.Flags().GetFloat64("min-contrast")

	themes, err := token.ParseThemes(themeFlag)
	if err != nil {
		return err
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

	findings := validator.Validate(set, validator.Options{
		Themes:      themes,
		Brands:      opts.Brands,
		MinContrast: minContrast,
	})
	report(cmd.OutOrStdout(), cmd.ErrOrStderr(), findings, quiet)

	if validator.Failed(findings, strict) {
		return fmt.Errorf("validation failed")
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%d tokens valid.\n", set.Count())
	}
	return nil
}

// report prints errors to errw and, unless quiet, warnings to w.
func report(w, errw io.Writer, findings []validator.ValidationError, quiet bool) {
	for i := range findings {
		f := &findings[i]
		if f.Severity == validator.SeverityWarning {
			if !quiet {
				fmt.Fprintf(w, "warning: %s\n", f.Error())
			}
			continue
		}
		fmt.Fprintf(errw, "error: %s\n", f.Error())
	}
}
