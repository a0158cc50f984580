package rollout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mf093087/mfgrl/sim"
	"github.com/mf093087/mfgrl/sim/trace"
)

// ErrRunawayEpisode is returned when an episode outlives its step budget.
var ErrRunawayEpisode = errors.New("episode did not terminate")

// EpisodeResult is the outcome of one played episode.
type EpisodeResult struct {
	Index       int                 `yaml:"index"`
	EpisodeID   uuid.UUID           `yaml:"episode_id"`
	Seed        int64               `yaml:"seed"`
	Policy      string              `yaml:"policy"`
	TotalReward float64             `yaml:"total_reward"`
	Steps       int                 `yaml:"steps"`
	Purchases   int                 `yaml:"purchases"`
	Reason      string              `yaml:"reason"`
	Trace       *trace.EpisodeTrace `yaml:"trace,omitempty"`
}

// Succeeded reports whether the episode ended with demand satisfied.
func (r EpisodeResult) Succeeded() bool {
	return r.Reason == string(sim.ReasonDemandSatisfied)
}

// Config holds the optional collaborators of a Runner.
type Config struct {
	// Seed of the first episode; episode i is seeded with Seed+i.
	Seed       int64
	Recorder   *Recorder // nil disables metrics
	TraceLevel trace.TraceLevel
}

// Runner plays a policy against an environment, one episode at a time.
type Runner struct {
	env    *sim.Environment
	policy Policy
	cfg    Config
}

// NewRunner returns a Runner. It panics on an unknown trace level, which is a
// programming error once the CLI has validated its flags.
func NewRunner(env *sim.Environment, policy Policy, cfg Config) *Runner {
	if !trace.IsValidTraceLevel(string(cfg.TraceLevel)) {
		panic(fmt.Sprintf("unknown trace level %q", cfg.TraceLevel))
	}
	return &Runner{env: env, policy: policy, cfg: cfg}
}

// Run plays episodes to termination. Cancellation is honored between
// episodes; the results completed so far are returned with ctx's error.
func (r *Runner) Run(ctx context.Context, episodes int) ([]EpisodeResult, error) {
	results := make([]EpisodeResult, 0, episodes)
	for i := 0; i < episodes; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.runEpisode(i)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runEpisode(index int) (EpisodeResult, error) {
	seed := r.cfg.Seed + int64(index)
	r.env.Seed(sim.NewSimulationKey(seed))
	r.policy.Reset()

	res := EpisodeResult{
		Index:     index,
		EpisodeID: trace.EpisodeID(r.cfg.Seed, index),
		Seed:      seed,
		Policy:    r.policy.Name(),
	}
	if r.cfg.TraceLevel == trace.TraceLevelSteps {
		res.Trace = trace.NewEpisodeTrace(res.EpisodeID, seed)
		res.Trace.Policy = res.Policy
	}

	obs, _ := r.env.Reset()
	n := r.env.NumConfigs()
	limit := r.env.MaxEpisodeSteps() + 1
	for step := 0; step < limit; step++ {
		action := r.policy.Act(obs, n)
		prevBuy := r.env.BuyIndex()
		out, err := r.env.Step(action)
		if err != nil {
			return res, fmt.Errorf("episode %d step %d: %w", index, step+1, err)
		}
		obs = out.Observation
		res.TotalReward += out.Reward
		res.Steps = out.Info.StepCount

		var configID string
		if action < n && out.Info.BuyIndex > prevBuy {
			configID = r.env.Catalog().Configurations[action].ID
			res.Purchases++
			if r.cfg.Recorder != nil {
				r.cfg.Recorder.RecordPurchase(res.Policy, configID)
			}
		}
		if res.Trace != nil {
			res.Trace.Record(stepRecord(action, n, configID, out))
		}

		if out.Terminated {
			res.Reason = string(out.Info.Reason)
			if r.cfg.Recorder != nil {
				r.cfg.Recorder.RecordEpisode(res)
			}
			logrus.Infof("Episode %d (%s): reward=%.4f steps=%d purchases=%d reason=%s",
				index, res.Policy, res.TotalReward, res.Steps, res.Purchases, res.Reason)
			return res, nil
		}
	}
	return res, fmt.Errorf("%w: episode %d exceeded %d actions", ErrRunawayEpisode, index, limit)
}

func stepRecord(action, numCfgs int, configID string, out sim.StepResult) trace.StepRecord {
	kind := trace.KindPurchase
	if action == numCfgs {
		kind = trace.KindProduce
	}
	return trace.StepRecord{
		Step:            out.Info.StepCount,
		Action:          action,
		Kind:            kind,
		ConfigID:        configID,
		Reward:          out.Reward,
		RemainingDemand: out.Observation.RemainingDemand,
		RemainingTime:   out.Observation.RemainingTime,
		BuyIndex:        out.Info.BuyIndex,
		Terminated:      out.Terminated,
		Reason:          string(out.Info.Reason),
	}
}
