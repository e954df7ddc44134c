package main

import (
	"fmt"

	"github.com/aretw0/mutagraph/internal/cli"
	"github.com/aretw0/mutagraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random graph and print its trace",
	Long: `Generates one graph in an in-memory keyspace and prints the trace of the
mutations that built it. The same --seed always prints the same trace.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rt, err := cli.Build(cfg, cmd.ErrOrStderr(), nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.Generator.Generate(cmd.Context(), cfg.Size)
		if err != nil {
			return err
		}
		defer res.Graph.Close()

		pretty := tui.IsTerminal(cmd.OutOrStdout())
		if cmd.Flags().Changed("pretty") {
			pretty, _ = cmd.Flags().GetBool("pretty")
		}
		if !pretty {
			fmt.Fprint(cmd.OutOrStdout(), res.Trace)
			return nil
		}
		out, err := tui.RenderTrace(res.Keyspace, res.Trace)
		if err != nil {
			return fmt.Errorf("render trace: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerationFlags(generateCmd)
	generateCmd.Flags().Bool("open", false, "Leave the graph open instead of tossing a coin")
	generateCmd.Flags().Bool("pretty", false, "Render the trace for the terminal (default when stdout is a terminal)")
}
