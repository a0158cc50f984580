// sim/environment.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mf093087/mfgrl/sim/catalog"
)

// Contract violations. None of them mutate the environment.
var (
	ErrInvalidAction     = errors.New("invalid action")
	ErrNotReset          = errors.New("environment must be reset before stepping")
	ErrEpisodeTerminated = errors.New("episode already terminated")
)

// Phase is the lifecycle state of the current episode.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseReady         Phase = "ready"
	PhaseRunning       Phase = "running"
	PhaseTerminated    Phase = "terminated"
)

// TerminationReason says which terminal branch ended an episode.
type TerminationReason string

const (
	ReasonNone            TerminationReason = ""
	ReasonBufferFull      TerminationReason = "buffer-full"
	ReasonDemandUnmet     TerminationReason = "demand-unmet"
	ReasonDemandSatisfied TerminationReason = "demand-satisfied"
)

// Info is the auxiliary information returned with every observation.
type Info struct {
	Message   string
	Reason    TerminationReason
	BuyIndex  int
	StepCount int
}

// StepResult is the outcome of one accepted action.
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Info        Info
}

// Environment is the episode controller. It owns one episode at a time and
// is NOT safe for concurrent use; run independent episodes on independent
// environments, optionally sharing one catalog.
type Environment struct {
	cat             *catalog.Catalog
	opts            Options
	codec           *Codec
	rng             *PartitionedRNG
	injector        *uncertaintyInjector
	maxEpisodeSteps int

	phase       Phase
	ep          *episode
	stepCount   int
	totalReward float64
}

// NewEnvironment validates cat, applies cost scaling and the feasibility
// check, and returns an environment awaiting Reset. rng is required when
// opts.Stochastic is set.
func NewEnvironment(cat *catalog.Catalog, opts Options, rng *PartitionedRNG) (*Environment, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: nil catalog", catalog.ErrInvalidCatalog)
	}
	if !validRenderModes[opts.RenderMode] {
		return nil, fmt.Errorf("unknown render mode %q; valid: human, or empty", opts.RenderMode)
	}
	if opts.RenderMode == RenderHuman && opts.Renderer == nil {
		return nil, fmt.Errorf("render mode %q requires a Renderer", opts.RenderMode)
	}
	if opts.Stochastic && rng == nil {
		return nil, errors.New("stochastic environment requires a random source")
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	for _, w := range cat.Warnings() {
		logrus.Warn(w)
	}
	if opts.ScaleCosts {
		scaled, err := cat.Scaled()
		if err != nil {
			return nil, err
		}
		cat = scaled
	}
	if err := cat.CheckFeasible(BufferSize); err != nil {
		return nil, err
	}

	e := &Environment{
		cat:             cat,
		opts:            opts,
		codec:           NewCodec(cat.NumConfigs()),
		maxEpisodeSteps: BufferSize + cat.DemandTime,
		phase:           PhaseUninitialized,
	}
	if rng != nil {
		e.setRNG(rng)
	}
	logrus.Debugf("Environment ready: %d configurations, demand=%v, demand_time=%d, stochastic=%v",
		cat.NumConfigs(), cat.Demand, cat.DemandTime, opts.Stochastic)
	return e, nil
}

// Seed replaces the random source. Episodes after the call replay the
// stream of key from its start.
func (e *Environment) Seed(key SimulationKey) {
	e.setRNG(NewPartitionedRNG(key))
}

func (e *Environment) setRNG(rng *PartitionedRNG) {
	e.rng = rng
	e.injector = nil
	if e.opts.Stochastic {
		e.injector = newUncertaintyInjector(e.rng)
	}
}

// Key returns the key of the current random source, or 0 if there is none.
func (e *Environment) Key() SimulationKey {
	if e.rng == nil {
		return 0
	}
	return e.rng.Key()
}

// Reset discards the current episode and starts a new one.
func (e *Environment) Reset() (Observation, Info) {
	e.ep = newEpisode(e.cat)
	e.stepCount = 0
	e.totalReward = 0
	e.phase = PhaseReady

	obs := e.ep.observe()
	e.render(-1, 0, obs)
	return obs, Info{Message: "Episode reset"}
}

// Step applies one action: action == NumConfigs() continues production,
// any smaller non-negative action purchases that configuration.
// Out-of-range actions and calls outside an episode return an error and
// leave the environment untouched.
func (e *Environment) Step(action int) (StepResult, error) {
	switch e.phase {
	case PhaseUninitialized:
		return StepResult{}, ErrNotReset
	case PhaseTerminated:
		return StepResult{}, ErrEpisodeTerminated
	}
	n := e.cat.NumConfigs()
	if action < 0 || action > n {
		return StepResult{}, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidAction, action, n)
	}

	e.stepCount++
	e.phase = PhaseRunning

	var (
		reward     float64
		terminated bool
		reason     TerminationReason
		msg        string
	)
	switch {
	case action == n:
		msg = "Continuing production"
		reward = e.ep.advanceProduction()
	case e.ep.buf.full():
		msg = "Terminated. Tried to purchase when the buffer is full"
		reward = e.cat.Penalty
		terminated = true
		reason = ReasonBufferFull
	default:
		msg = fmt.Sprintf("Decision step. Purchase configuration %q", e.cat.Configurations[action].ID)
		reward = e.ep.purchase(action)
	}

	if e.injector != nil {
		e.injector.apply(e.ep)
	}

	if !terminated {
		reason = e.evaluateTermination()
		switch reason {
		case ReasonDemandUnmet:
			msg = "Demand was not satisfied"
			reward = e.cat.Penalty
			terminated = true
		case ReasonDemandSatisfied:
			msg = "Demand is satisfied"
			terminated = true
		}
	}

	e.totalReward += reward
	if terminated {
		e.phase = PhaseTerminated
	}

	obs := e.ep.observe()
	logrus.Debugf("[step %03d] action=%d reward=%.4f demand=%v time=%d buffer=%d/%d %s",
		e.stepCount, action, reward, obs.RemainingDemand, obs.RemainingTime, e.ep.buf.buyIndex, BufferSize, msg)
	e.render(action, reward, obs)

	return StepResult{
		Observation: obs,
		Reward:      reward,
		Terminated:  terminated,
		Info: Info{
			Message:   msg,
			Reason:    reason,
			BuyIndex:  e.ep.buf.buyIndex,
			StepCount: e.stepCount,
		},
	}, nil
}

// evaluateTermination checks the time and step budgets against the
// remaining demand. An unmet demand is checked first.
func (e *Environment) evaluateTermination() TerminationReason {
	ep := e.ep
	switch {
	case ep.remainingDemand > 0 && (ep.remainingTime <= 0 || e.stepCount >= e.maxEpisodeSteps):
		return ReasonDemandUnmet
	case ep.remainingDemand <= 0 && ep.remainingTime >= 0 && e.stepCount <= e.maxEpisodeSteps:
		return ReasonDemandSatisfied
	default:
		return ReasonNone
	}
}

func (e *Environment) render(action int, reward float64, obs Observation) {
	if e.opts.RenderMode != RenderHuman {
		return
	}
	e.opts.Renderer.Render(Frame{
		Step:        e.stepCount,
		Action:      action,
		Reward:      reward,
		TotalReward: e.totalReward,
		Observation: obs,
	})
}

// Observation returns the current state, or the zero Observation before the first Reset.
func (e *Environment) Observation() Observation {
	if e.ep == nil {
		return Observation{}
	}
	return e.ep.observe()
}

// Catalog returns the catalog the environment runs on, after cost scaling.
func (e *Environment) Catalog() *catalog.Catalog { return e.cat }

// Codec returns the observation codec for this environment's catalog.
func (e *Environment) Codec() *Codec { return e.codec }

// NumConfigs returns the number of purchasable configurations.
func (e *Environment) NumConfigs() int { return e.cat.NumConfigs() }

// ActionCount returns the size of the discrete action space, NumConfigs()+1.
func (e *Environment) ActionCount() int { return e.cat.NumConfigs() + 1 }

// MaxEpisodeSteps returns BufferSize + demand_time.
func (e *Environment) MaxEpisodeSteps() int { return e.maxEpisodeSteps }

// Phase returns the lifecycle state of the current episode.
func (e *Environment) Phase() Phase { return e.phase }

// StepCount returns the number of accepted actions in the current episode.
func (e *Environment) StepCount() int { return e.stepCount }

// TotalReward returns the cumulative reward of the current episode.
func (e *Environment) TotalReward() float64 { return e.totalReward }

// BuyIndex returns the number of purchases made in the current episode.
func (e *Environment) BuyIndex() int {
	if e.ep == nil {
		return 0
	}
	return e.ep.buf.buyIndex
}
