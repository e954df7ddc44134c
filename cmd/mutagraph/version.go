package main

import (
	"fmt"

	"github.com/aretw0/mutagraph"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mutagraph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mutagraph version %s\n", mutagraph.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
