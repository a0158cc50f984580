package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mf093087/mfgrl/sim"
	"github.com/mf093087/mfgrl/sim/rollout"
	"github.com/mf093087/mfgrl/sim/trace"
)

// rolloutReport is what `mfgrl rollout` prints.
type rolloutReport struct {
	Summary  rollout.Summary         `yaml:"summary"`
	Episodes []rollout.EpisodeResult `yaml:"episodes,omitempty"`
}

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Evaluate a baseline policy over many episodes",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadRunConfig(cmd.Flags(), configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cfg.Episodes < 1 {
			logrus.Fatalf("--episodes must be at least 1, got %d", cfg.Episodes)
		}
		env, err := cfg.newEnvironment(nil)
		if err != nil {
			logrus.Fatalf("Failed to build environment: %v", err)
		}
		policy, err := rollout.NewPolicy(cfg.Policy, sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)))
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		recorder, err := rollout.NewRecorder()
		if err != nil {
			logrus.Fatalf("Failed to register metrics: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		runner := rollout.NewRunner(env, policy, rollout.Config{
			Seed:       cfg.Seed,
			Recorder:   recorder,
			TraceLevel: trace.TraceLevel(cfg.Trace),
		})
		logrus.Infof("Starting rollout: policy=%s episodes=%d stochastic=%v seed=%d",
			policy.Name(), cfg.Episodes, cfg.Stochastic, cfg.Seed)
		results, err := runner.Run(ctx, cfg.Episodes)
		if err != nil {
			// Report what finished before the interruption.
			logrus.Errorf("Rollout stopped after %d episodes: %v", len(results), err)
		}

		report := rolloutReport{Summary: rollout.Summarize(results)}
		if cfg.Trace == string(trace.TraceLevelSteps) {
			report.Episodes = results
		}
		out, err := yaml.Marshal(report)
		if err != nil {
			logrus.Fatalf("Failed to encode summary: %v", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))

		if cfg.MetricsOut != "" {
			if err := writeMetrics(recorder, cfg.MetricsOut); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Metrics written to %s", cfg.MetricsOut)
		}
	},
}

func writeMetrics(recorder *rollout.Recorder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	if err := recorder.WriteText(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func init() {
	addEnvironmentFlags(rolloutCmd)
	rolloutCmd.Flags().String("policy", "greedy", "Baseline policy (greedy, random)")
	rolloutCmd.Flags().Int("episodes", 10, "Number of episodes to play")
	rolloutCmd.Flags().String("metrics-out", "", "Write Prometheus text metrics to this file")
	rolloutCmd.Flags().String("trace", "none", "Trace level (none, steps); steps prints every episode's decisions")
	rootCmd.AddCommand(rolloutCmd)
}
