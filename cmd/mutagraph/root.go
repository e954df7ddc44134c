package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mutagraph/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mutagraph",
	Short: "mutagraph generates random typed graph states",
	Long: `mutagraph builds random ontologies and instances by applying random mutations
to an empty keyspace, and prints the replayable trace of every generation.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "mutagraph.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address used to archive traces")
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("redis") {
		cfg.Redis.Addr, _ = flags.GetString("redis")
	}
	if flags.Changed("size") {
		cfg.Size, _ = flags.GetInt("size")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("open") {
		open, _ := flags.GetBool("open")
		cfg.Open = &open
	}
	if flags.Changed("retry-budget") {
		cfg.RetryBudget, _ = flags.GetInt("retry-budget")
	}
	if flags.Changed("operators") {
		cfg.Operators, _ = flags.GetStringSlice("operators")
	}
	return cfg, cfg.Validate()
}

// addGenerationFlags registers the flags shared by commands that generate a graph.
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("size", "n", 20, "Number of mutations to apply")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	cmd.Flags().Int("retry-budget", 0, "Attempts allowed per mutation (0 is unbounded)")
	cmd.Flags().StringSlice("operators", nil, "Restrict mutations to these operators")
}
