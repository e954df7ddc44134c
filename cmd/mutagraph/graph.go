package main

import (
	"fmt"

	"github.com/aretw0/mutagraph"
	"github.com/aretw0/mutagraph/internal/cli"
	"github.com/aretw0/mutagraph/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the ontology of a generated graph",
	Long:  `Generates a graph and outputs a Mermaid diagram (graph BT) of its type hierarchy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rt, err := cli.Build(cfg, cmd.ErrOrStderr(), nil, mutagraph.WithOpen(true))
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.Generator.Generate(cmd.Context(), cfg.Size)
		if err != nil {
			return err
		}
		defer res.Graph.Close()

		elements, err := graph.Ontology(res.Graph)
		if err != nil {
			return fmt.Errorf("inspect graph: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(elements))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addGenerationFlags(graphCmd)
}
