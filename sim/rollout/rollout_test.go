package rollout

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mf093087/mfgrl/sim"
	"github.com/mf093087/mfgrl/sim/internal/testutil"
	"github.com/mf093087/mfgrl/sim/trace"
)

func newEnv(t *testing.T, stochastic bool) *sim.Environment {
	t.Helper()
	env, err := sim.NewEnvironment(testutil.SingleConfigCatalog(99, 3), sim.Options{Stochastic: stochastic}, sim.NewPartitionedRNG(sim.NewSimulationKey(0)))
	require.NoError(t, err)
	return env
}

func TestRunner_GreedyPolicy_SatisfiesDemand(t *testing.T) {
	// GIVEN a deterministic environment and the greedy policy
	runner := NewRunner(newEnv(t, false), &GreedyPolicy{}, Config{})

	// WHEN one episode is played
	results, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// THEN it buys just enough capacity (7 x 15 >= 99) and then produces
	res := results[0]
	assert.True(t, res.Succeeded())
	assert.Equal(t, 7, res.Purchases)
	assert.Equal(t, 10, res.Steps)
	assert.Equal(t, -7*5-3*3.5, res.TotalReward)
	assert.Nil(t, res.Trace, "tracing is off by default")
}

func TestRunner_ScriptedPolicy_TerminalBranches(t *testing.T) {
	tests := []struct {
		name      string
		actions   []int
		reason    sim.TerminationReason
		steps     int
		purchases int
		reward    float64
	}{
		{
			name:      "too little capacity",
			actions:   []int{0, 0},
			reason:    sim.ReasonDemandUnmet,
			steps:     5,
			purchases: 2,
			reward:    -5 - 5 - 1 - 1 - 100,
		},
		{
			name:      "purchase with a full buffer",
			actions:   []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			reason:    sim.ReasonBufferFull,
			steps:     11,
			purchases: 10,
			reward:    -50 - 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(newEnv(t, false), NewScriptedPolicy(tt.actions), Config{})
			results, err := runner.Run(context.Background(), 1)
			require.NoError(t, err)
			require.Len(t, results, 1)

			res := results[0]
			assert.Equal(t, string(tt.reason), res.Reason)
			assert.Equal(t, tt.steps, res.Steps)
			assert.Equal(t, tt.purchases, res.Purchases)
			assert.Equal(t, tt.reward, res.TotalReward)
			assert.False(t, res.Succeeded())
		})
	}
}

func TestRunner_ScriptedPolicy_ReplaysEveryEpisode(t *testing.T) {
	runner := NewRunner(newEnv(t, false), NewScriptedPolicy([]int{0, 0}), Config{})
	results, err := runner.Run(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.Equal(t, 2, res.Purchases)
		assert.Equal(t, results[0].TotalReward, res.TotalReward)
	}
}

func TestRunner_InvalidAction_ReturnsError(t *testing.T) {
	runner := NewRunner(newEnv(t, false), NewScriptedPolicy([]int{5}), Config{})
	results, err := runner.Run(context.Background(), 2)
	assert.ErrorIs(t, err, sim.ErrInvalidAction)
	assert.Empty(t, results)
}

func TestRunner_CancelledContext_StopsBeforeNextEpisode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(newEnv(t, false), &GreedyPolicy{}, Config{})
	results, err := runner.Run(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRunner_RandomPolicy_SameSeedSameResults(t *testing.T) {
	run := func() []EpisodeResult {
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(11))
		runner := NewRunner(newEnv(t, true), NewRandomPolicy(rng), Config{Seed: 11, TraceLevel: trace.TraceLevelSteps})
		results, err := runner.Run(context.Background(), 5)
		require.NoError(t, err)
		return results
	}

	first := run()
	require.Len(t, first, 5)
	if diff := cmp.Diff(first, run()); diff != "" {
		t.Errorf("replay mismatch (-first +second):\n%s", diff)
	}
	for i, res := range first {
		assert.Equal(t, int64(11+i), res.Seed)
		assert.Equal(t, trace.EpisodeID(11, i), res.EpisodeID)
		assert.NotEmpty(t, res.Reason)
	}
}

func TestRunner_TraceMatchesResult(t *testing.T) {
	runner := NewRunner(newEnv(t, false), &GreedyPolicy{}, Config{TraceLevel: trace.TraceLevelSteps})
	results, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)

	res := results[0]
	require.NotNil(t, res.Trace)
	require.Len(t, res.Trace.Steps, res.Steps)

	summary := trace.Summarize(res.Trace)
	assert.Equal(t, res.TotalReward, summary.TotalReward)
	assert.Equal(t, 7, summary.PurchaseCount)
	assert.Equal(t, 3, summary.ProduceCount)
	assert.Equal(t, map[string]int{"0": 7}, summary.PurchasesByConfig)
	assert.True(t, summary.Terminated)
	assert.Equal(t, res.Reason, summary.Reason)
	assert.Equal(t, "greedy", res.Trace.Policy)

	first := res.Trace.Steps[0]
	assert.Equal(t, trace.KindPurchase, first.Kind)
	assert.Equal(t, "0", first.ConfigID)
	assert.Equal(t, 1, first.BuyIndex)
}

func TestRunner_Recorder_CountsEpisodesAndPurchases(t *testing.T) {
	rec, err := NewRecorder()
	require.NoError(t, err)

	runner := NewRunner(newEnv(t, false), &GreedyPolicy{}, Config{Recorder: rec})
	_, err = runner.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3.0, promtestutil.ToFloat64(rec.episodesTotal.WithLabelValues("greedy", string(sim.ReasonDemandSatisfied))))
	assert.Equal(t, 21.0, promtestutil.ToFloat64(rec.purchasesTotal.WithLabelValues("greedy", "0")))
	assert.Equal(t, 1, promtestutil.CollectAndCount(rec.episodeReward))

	var sb strings.Builder
	require.NoError(t, rec.WriteText(&sb))
	out := sb.String()
	assert.Contains(t, out, "mfgrl_rollout_episodes_total")
	assert.Contains(t, out, `reason="demand-satisfied"`)
	assert.Contains(t, out, "mfgrl_rollout_episode_steps_bucket")
}

func TestNewPolicy(t *testing.T) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(1))

	p, err := NewPolicy("random", rng)
	require.NoError(t, err)
	assert.Equal(t, "random", p.Name())

	p, err = NewPolicy("greedy", nil)
	require.NoError(t, err)
	assert.Equal(t, "greedy", p.Name())

	_, err = NewPolicy("random", nil)
	assert.Error(t, err)

	_, err = NewPolicy("optimal", rng)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greedy, random")
}

func TestRandomPolicy_StaysInActionSpace(t *testing.T) {
	p := NewRandomPolicy(sim.NewPartitionedRNG(sim.NewSimulationKey(3)))
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		a := p.Act(sim.Observation{}, 2)
		require.GreaterOrEqual(t, a, 0)
		require.LessOrEqual(t, a, 2)
		seen[a] = true
	}
	assert.Len(t, seen, 3)
}

func TestGreedyPolicy_PrefersOutputPerCost(t *testing.T) {
	obs := sim.Observation{
		RemainingDemand: 100,
		RemainingTime:   10,
		Market: sim.Market{
			IncurringCosts:  []float64{10, 10, 10},
			RecurringCosts:  []float64{1, 1, 1},
			ProductionRates: []float64{1, 3, 4},
			SetupTimes:      []float64{1, 1, 20},
		},
	}
	// config 2 is fastest but cannot finish setup in time
	assert.Equal(t, 1, (&GreedyPolicy{}).Act(obs, 3))

	obs.RemainingDemand = 0
	assert.Equal(t, 3, (&GreedyPolicy{}).Act(obs, 3))
}

func TestScriptedPolicy_ContinuesAfterScript(t *testing.T) {
	p := NewScriptedPolicy([]int{1, 0})
	assert.Equal(t, 1, p.Act(sim.Observation{}, 2))
	assert.Equal(t, 0, p.Act(sim.Observation{}, 2))
	assert.Equal(t, 2, p.Act(sim.Observation{}, 2))
	p.Reset()
	assert.Equal(t, 1, p.Act(sim.Observation{}, 2))
}

func TestProductiveSteps(t *testing.T) {
	tests := []struct {
		readiness, setup float64
		remaining, want  int
	}{
		{1, 1, 3, 3},
		{1.0 / 3, 3, 5, 3},
		{0.5, 2, 1, 0},
		{1, 4, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, productiveSteps(tt.readiness, tt.setup, tt.remaining), "%+v", tt)
	}
}

func TestSummarize(t *testing.T) {
	results := []EpisodeResult{
		{Policy: "random", TotalReward: -10, Steps: 4, Reason: string(sim.ReasonDemandSatisfied)},
		{Policy: "random", TotalReward: -20, Steps: 6, Reason: string(sim.ReasonDemandUnmet)},
		{Policy: "random", TotalReward: -30, Steps: 8, Reason: string(sim.ReasonDemandUnmet)},
	}

	s := Summarize(results)
	assert.Equal(t, "random", s.Policy)
	assert.Equal(t, 3, s.Episodes)
	testutil.AssertFloat64Equal(t, "mean_reward", -20, s.MeanReward, 1e-12)
	testutil.AssertFloat64Equal(t, "stddev_reward", 10, s.StdDevReward, 1e-12)
	assert.Equal(t, -30.0, s.MinReward)
	assert.Equal(t, -10.0, s.MaxReward)
	assert.InDelta(t, 6, s.MeanSteps, 1e-12)
	assert.InDelta(t, 1.0/3, s.SuccessRate, 1e-12)
	assert.Equal(t, map[string]int{"demand-satisfied": 1, "demand-unmet": 2}, s.Reasons)
}

func TestSummarize_SingleAndEmpty(t *testing.T) {
	s := Summarize([]EpisodeResult{{Policy: "greedy", TotalReward: -7, Steps: 3}})
	assert.Equal(t, -7.0, s.MeanReward)
	assert.Equal(t, 0.0, s.StdDevReward)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Episodes)
	assert.NotNil(t, empty.Reasons)
}

func TestRunner_GreedyPolicy_SampleCatalog(t *testing.T) {
	// GIVEN the sample catalog under uncertainty
	env, err := sim.NewEnvironment(testutil.LoadSampleCatalog(t), sim.Options{Stochastic: true},
		sim.NewPartitionedRNG(sim.NewSimulationKey(5)))
	require.NoError(t, err)

	// WHEN the greedy policy plays a few episodes
	results, err := NewRunner(env, &GreedyPolicy{}, Config{Seed: 5}).Run(context.Background(), 3)
	require.NoError(t, err)

	// THEN every episode terminates inside its step budget after buying something
	require.Len(t, results, 3)
	for _, res := range results {
		assert.NotEmpty(t, res.Reason)
		assert.LessOrEqual(t, res.Steps, env.MaxEpisodeSteps())
		assert.Positive(t, res.Purchases)
	}
}
