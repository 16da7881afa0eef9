// Package main provides the CLI entrypoint for bettercorq.
//
// @title bettercorq API
// @version 1.0
// @description Weekly availability grid, schedule extraction and event matching.
// @BasePath /
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bettercorq",
		Short:         "Weekly availability grid and event matcher",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newEncodeCmd())

	return rootCmd
}
