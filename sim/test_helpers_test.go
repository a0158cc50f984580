package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mf093087/mfgrl/sim/catalog"
	"github.com/mf093087/mfgrl/sim/internal/testutil"
)

// singleConfigCatalog is one configuration {10, 1, 5, 1} with tradeoff 0.5
// and penalty -100.
func singleConfigCatalog(demand float64, demandTime int) *catalog.Catalog {
	return testutil.SingleConfigCatalog(demand, demandTime)
}

// multiConfigCatalog has three configurations with different setup times.
func multiConfigCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Demand:           60,
		DemandTime:       20,
		MaxIncurringCost: 100,
		MaxRecurringCost: 10,
		Tradeoff:         0.3,
		Penalty:          -500,
		Configurations: catalog.Entries{
			{ID: "slow", Configuration: catalog.Configuration{IncurringCost: 20, RecurringCost: 2, ProductionRate: 1, SetupTime: 2}},
			{ID: "fast", Configuration: catalog.Configuration{IncurringCost: 80, RecurringCost: 5, ProductionRate: 4, SetupTime: 3}},
			{ID: "instant", Configuration: catalog.Configuration{IncurringCost: 40, RecurringCost: 3, ProductionRate: 2, SetupTime: 1}},
		},
	}
}

func newTestEnv(t *testing.T, cat *catalog.Catalog, opts Options, seed int64) *Environment {
	t.Helper()
	env, err := NewEnvironment(cat, opts, NewPartitionedRNG(NewSimulationKey(seed)))
	require.NoError(t, err)
	env.Reset()
	return env
}

func mustStep(t *testing.T, env *Environment, action int) StepResult {
	t.Helper()
	res, err := env.Step(action)
	require.NoError(t, err)
	return res
}

// trajectory is everything observable from one episode, for replay comparisons.
type trajectory struct {
	Rewards      []float64
	Observations [][]float64
	Terminated   []bool
}

func play(t *testing.T, env *Environment, actions []int) trajectory {
	t.Helper()
	var tr trajectory
	for _, a := range actions {
		res := mustStep(t, env, a)
		vec, err := env.Codec().Encode(res.Observation)
		require.NoError(t, err)
		tr.Rewards = append(tr.Rewards, res.Reward)
		tr.Observations = append(tr.Observations, vec)
		tr.Terminated = append(tr.Terminated, res.Terminated)
		if res.Terminated {
			break
		}
	}
	return tr
}
