// Package rollout plays baseline policies against a sim.Environment and
// aggregates the outcome of many episodes.
package rollout

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/mf093087/mfgrl/sim"
)

// Policy chooses the next action from the current observation. Actions are
// in [0, numCfgs]; numCfgs means continue production.
type Policy interface {
	Name() string
	Act(obs sim.Observation, numCfgs int) int
	// Reset is called before every episode.
	Reset()
}

// ValidPolicies is the set of policy names NewPolicy accepts.
var ValidPolicies = map[string]bool{"random": true, "greedy": true}

// ValidPolicyNames returns the accepted policy names, sorted.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(ValidPolicies))
	for n := range ValidPolicies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewPolicy builds a named baseline policy. rng seeds the random policy
// from its policy subsystem and may be nil for deterministic policies.
func NewPolicy(name string, rng *sim.PartitionedRNG) (Policy, error) {
	switch name {
	case "random":
		if rng == nil {
			return nil, fmt.Errorf("policy %q requires a random source", name)
		}
		return NewRandomPolicy(rng), nil
	case "greedy":
		return &GreedyPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q; valid: %s", name, strings.Join(ValidPolicyNames(), ", "))
	}
}

// RandomPolicy draws actions uniformly from the whole action space.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a RandomPolicy drawing from rng's policy subsystem.
func NewRandomPolicy(rng *sim.PartitionedRNG) *RandomPolicy {
	return &RandomPolicy{rng: rng.ForSubsystem(sim.SubsystemPolicy)}
}

func (p *RandomPolicy) Name() string { return "random" }

func (p *RandomPolicy) Act(_ sim.Observation, numCfgs int) int {
	return p.rng.Intn(numCfgs + 1)
}

// Reset keeps the stream going so consecutive episodes see fresh draws.
func (p *RandomPolicy) Reset() {}

// GreedyPolicy buys the configuration with the best output per unit of
// incurring cost until the installed capacity covers the remaining demand
// within the remaining time, then only produces.
type GreedyPolicy struct{}

func (p *GreedyPolicy) Name() string { return "greedy" }

func (p *GreedyPolicy) Reset() {}

func (p *GreedyPolicy) Act(obs sim.Observation, numCfgs int) int {
	produce := numCfgs
	if obs.RemainingDemand <= 0 {
		return produce
	}

	var capacity float64
	purchased := 0
	for _, s := range obs.Buffer {
		if !s.Purchased() {
			continue
		}
		purchased++
		capacity += s.ProductionRate * float64(productiveSteps(s.Readiness, s.SetupTime, obs.RemainingTime))
	}
	if capacity >= obs.RemainingDemand || purchased >= sim.BufferSize {
		return produce
	}

	best, bestScore := produce, 0.0
	for i := 0; i < numCfgs; i++ {
		setup := obs.Market.SetupTimes[i]
		output := obs.Market.ProductionRates[i] * float64(productiveSteps(1/setup, setup, obs.RemainingTime))
		if output <= 0 {
			continue
		}
		cost := obs.Market.IncurringCosts[i]
		score := math.Inf(1)
		if cost > 0 {
			score = output / cost
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// productiveSteps is the number of the remaining steps in which a slot with
// the given readiness will produce. Production starts on the step after the
// slot becomes ready.
func productiveSteps(readiness, setup float64, remainingTime int) int {
	if setup <= 0 {
		return remainingTime
	}
	warmup := int(math.Ceil((1-readiness)*setup - 1e-9))
	if warmup < 0 {
		warmup = 0
	}
	if n := remainingTime - warmup; n > 0 {
		return n
	}
	return 0
}

// ScriptedPolicy replays a fixed action list and then continues production.
type ScriptedPolicy struct {
	actions []int
	next    int
}

// NewScriptedPolicy returns a ScriptedPolicy over a copy of actions.
func NewScriptedPolicy(actions []int) *ScriptedPolicy {
	return &ScriptedPolicy{actions: append([]int(nil), actions...)}
}

func (p *ScriptedPolicy) Name() string { return "scripted" }

func (p *ScriptedPolicy) Reset() { p.next = 0 }

func (p *ScriptedPolicy) Act(_ sim.Observation, numCfgs int) int {
	if p.next >= len(p.actions) {
		return numCfgs
	}
	a := p.actions[p.next]
	p.next++
	return a
}
