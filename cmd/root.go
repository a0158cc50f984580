package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Flags shared by every subcommand
	configPath string // Optional run configuration file
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mfgrl",
	Short: "Manufacturing buffer environment for reinforcement learning",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Run configuration file (YAML); flags and MFGRL_* variables override it")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// addEnvironmentFlags registers the flags every environment-building command shares.
func addEnvironmentFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "Path to the configuration catalog (YAML or JSON)")
	cmd.Flags().Bool("scale-costs", false, "Divide costs by max_incurring_cost and max_recurring_cost")
	cmd.Flags().Bool("stochastic", false, "Enable production and market uncertainty")
	cmd.Flags().Int64("seed", 42, "Seed for the environment's random source")
}
