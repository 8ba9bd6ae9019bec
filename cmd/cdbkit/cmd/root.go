/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cdbkit",
	Short: "cdbkit - Cyanide database file converter",
	Long: `cdbkit converts Cyanide database (CDB) files, as written by the
game, to and from SQLite databases that ordinary tools can edit. The
decompressed output of an unmodified round trip is byte-identical to
the input.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
