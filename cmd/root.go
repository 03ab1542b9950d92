/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for tessera.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tessera/cmd/brands"
	"bennypowers.dev/tessera/cmd/build"
	"bennypowers.dev/tessera/cmd/figma"
	"bennypowers.dev/tessera/cmd/list"
	"bennypowers.dev/tessera/cmd/validate"
	"bennypowers.dev/tessera/cmd/version"
	"bennypowers.dev/tessera/internal/logger"
)

// EnvPrefix prefixes environment overrides of the persistent flags,
// e.g. TESSERA_PREFIX.
const EnvPrefix = "TESSERA"

var rootCmd = &cobra.Command{
	Use:   "tessera",
	Short: "Build design tokens into CSS, SCSS, JS and Figma outputs",
	Long: `tessera builds layered DTCG design tokens (primitives, semantic, components,
custom and brands) into per-theme CSS, SCSS, JavaScript, TypeScript and JSON
outputs, and into a Figma Tokens Studio tree.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("root", ".", "Project root")
	flags.String("tokens", "", "Tokens directory relative to the root (default \"tokens\")")
	flags.String("output", "", "Build directory relative to the root (default \"build\")")
	flags.String("prefix", "", "CSS variable prefix, overrides _prefix.json")
	flags.BoolP("verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(build.Cmd)
	rootCmd.AddCommand(figma.Cmd)
	rootCmd.AddCommand(brands.Cmd)
	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

// setup binds the persistent flags and their environment overrides.
func setup(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	logger.SetVerbose(viper.GetBool("verbose"))
	return nil
}
