package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// catalogReport is what `mfgrl validate` prints for an accepted catalog.
type catalogReport struct {
	Data           string   `yaml:"data"`
	Demand         float64  `yaml:"demand"`
	DemandTime     int      `yaml:"demand_time"`
	Configurations []string `yaml:"configurations"`
	ActionCount    int      `yaml:"action_count"`
	ObservationLen int      `yaml:"observation_size"`
	CostsScaled    bool     `yaml:"costs_scaled"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load, validate and feasibility-check a configuration catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadRunConfig(cmd.Flags(), configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		env, err := cfg.newEnvironment(nil)
		if err != nil {
			logrus.Fatalf("Catalog %s rejected: %v", cfg.Data, err)
		}

		cat := env.Catalog()
		report := catalogReport{
			Data:           cfg.Data,
			Demand:         cat.Demand,
			DemandTime:     cat.DemandTime,
			ActionCount:    env.ActionCount(),
			ObservationLen: env.Codec().Size(),
			CostsScaled:    cfg.ScaleCosts,
		}
		for _, e := range cat.Configurations {
			report.Configurations = append(report.Configurations, e.ID)
		}
		out, err := yaml.Marshal(report)
		if err != nil {
			logrus.Fatalf("Failed to encode report: %v", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	},
}

func init() {
	addEnvironmentFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
