package rollout

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the results of a rollout.
type Summary struct {
	Policy       string         `yaml:"policy"`
	Episodes     int            `yaml:"episodes"`
	MeanReward   float64        `yaml:"mean_reward"`
	StdDevReward float64        `yaml:"stddev_reward"`
	MinReward    float64        `yaml:"min_reward"`
	MaxReward    float64        `yaml:"max_reward"`
	SuccessRate  float64        `yaml:"success_rate"`
	MeanSteps    float64        `yaml:"mean_steps"`
	Reasons      map[string]int `yaml:"reasons"`
}

// Summarize computes reward statistics over results. The standard deviation
// of a single episode is 0. Safe for an empty slice.
func Summarize(results []EpisodeResult) Summary {
	s := Summary{Reasons: make(map[string]int)}
	if len(results) == 0 {
		return s
	}
	s.Policy = results[0].Policy
	s.Episodes = len(results)

	rewards := make([]float64, len(results))
	steps := make([]float64, len(results))
	successes := 0
	for i, r := range results {
		rewards[i] = r.TotalReward
		steps[i] = float64(r.Steps)
		s.Reasons[r.Reason]++
		if r.Succeeded() {
			successes++
		}
	}

	if len(rewards) > 1 {
		s.MeanReward, s.StdDevReward = stat.MeanStdDev(rewards, nil)
	} else {
		s.MeanReward = rewards[0]
	}
	s.MinReward = floats.Min(rewards)
	s.MaxReward = floats.Max(rewards)
	s.MeanSteps = stat.Mean(steps, nil)
	s.SuccessRate = float64(successes) / float64(len(results))
	return s
}
