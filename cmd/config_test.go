package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mf093087/mfgrl/sim"
)

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addEnvironmentFlags(cmd)
	cmd.Flags().String("render", "", "")
	cmd.Flags().String("policy", "greedy", "")
	cmd.Flags().Int("episodes", 10, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestLoadRunConfig_Precedence(t *testing.T) {
	// GIVEN a config file, an environment override and an explicit flag
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: from-file.yaml\nseed: 5\nstochastic: true\nepisodes: 3\n"), 0644))
	t.Setenv("MFGRL_SEED", "9")
	t.Setenv("MFGRL_SCALE_COSTS", "true")
	cmd := newFlagCommand(t, "--data", "from-flag.yaml")

	// WHEN the configuration is resolved
	cfg, err := loadRunConfig(cmd.Flags(), path)
	require.NoError(t, err)

	// THEN flags beat env, env beats the file, the file beats defaults
	assert.Equal(t, "from-flag.yaml", cfg.Data)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.True(t, cfg.ScaleCosts)
	assert.True(t, cfg.Stochastic)
	assert.Equal(t, 3, cfg.Episodes)
	assert.Equal(t, "greedy", cfg.Policy)
}

func TestLoadRunConfig_Defaults(t *testing.T) {
	cfg, err := loadRunConfig(newFlagCommand(t, "--data", "x.yaml").Flags(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.False(t, cfg.Stochastic)
	assert.Equal(t, 10, cfg.Episodes)
	assert.Equal(t, sim.Options{}, cfg.options())
}

func TestLoadRunConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		path string
		want string
	}{
		{"missing data", nil, "", "Data"},
		{"unknown render mode", []string{"--data", "x.yaml", "--render", "gif"}, "", "render mode"},
		{"negative episodes", []string{"--data", "x.yaml", "--episodes", "-1"}, "", "Episodes"},
		{"missing config file", []string{"--data", "x.yaml"}, "/nonexistent/run.yaml", "config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadRunConfig(newFlagCommand(t, tt.args...).Flags(), tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunConfig_NewEnvironment_LoadsCatalog(t *testing.T) {
	cfg := &RunConfig{Data: "../testdata/data.yaml", Seed: 1}
	env, err := cfg.newEnvironment(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, env.NumConfigs())
	assert.Equal(t, 110, env.MaxEpisodeSteps())

	cfg.Data = "../testdata/data.json"
	env, err = cfg.newEnvironment(nil)
	require.NoError(t, err)
	assert.Equal(t, "industrial", env.Catalog().Configurations[1].ID)
}
