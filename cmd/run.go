package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mf093087/mfgrl/sim/rollout"
	"github.com/mf093087/mfgrl/sim/trace"
)

var actions []int // Scripted actions for `run`; production continues after the last one

// runCmd plays one episode from a fixed action list and prints its trajectory
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one episode from a scripted action list",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadRunConfig(cmd.Flags(), configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		env, err := cfg.newEnvironment(newTextRenderer(cmd.OutOrStdout()))
		if err != nil {
			logrus.Fatalf("Failed to build environment: %v", err)
		}

		runner := rollout.NewRunner(env, rollout.NewScriptedPolicy(actions), rollout.Config{
			Seed:       cfg.Seed,
			TraceLevel: trace.TraceLevelSteps,
		})
		results, err := runner.Run(context.Background(), 1)
		if err != nil {
			logrus.Fatalf("Episode failed: %v", err)
		}

		out, err := yaml.Marshal(results[0])
		if err != nil {
			logrus.Fatalf("Failed to encode trajectory: %v", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	},
}

func init() {
	addEnvironmentFlags(runCmd)
	runCmd.Flags().IntSliceVar(&actions, "actions", nil, "Comma-separated actions; NUM_CFGS continues production")
	runCmd.Flags().String("render", "", "Render mode (human, or empty for none)")
	rootCmd.AddCommand(runCmd)
}
