// Package gym exposes sim.Environment through the flat Reset/Step surface
// that reinforcement-learning frameworks expect: observations are encoded
// vectors and the action space is a single discrete range.
package gym

import (
	"fmt"

	"github.com/mf093087/mfgrl/sim"
)

// Info keys set by Adapter.
const (
	InfoMessage  = "msg"
	InfoReason   = "reason"
	InfoBuyIndex = "buy_index"
	InfoStep     = "step"
)

// Info is the auxiliary dictionary returned alongside each observation.
type Info map[string]any

// Env is the capability a training framework drives.
type Env interface {
	Reset() ([]float64, Info, error)
	Step(action int) (obs []float64, reward float64, terminated bool, info Info, err error)
	ObservationSize() int
	ActionCount() int
}

// Adapter wraps a sim.Environment as an Env.
type Adapter struct {
	env *sim.Environment
}

var _ Env = (*Adapter)(nil)

// NewAdapter returns an Adapter over env.
func NewAdapter(env *sim.Environment) *Adapter {
	return &Adapter{env: env}
}

// Environment returns the wrapped environment.
func (a *Adapter) Environment() *sim.Environment { return a.env }

// Reset starts a new episode and returns its encoded initial observation.
func (a *Adapter) Reset() ([]float64, Info, error) {
	obs, info := a.env.Reset()
	vec, err := a.env.Codec().Encode(obs)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding reset observation: %w", err)
	}
	return vec, toInfo(info), nil
}

// Step forwards action to the environment. Contract violations from the
// environment are returned unchanged so callers can match them with errors.Is.
func (a *Adapter) Step(action int) ([]float64, float64, bool, Info, error) {
	res, err := a.env.Step(action)
	if err != nil {
		return nil, 0, false, nil, err
	}
	vec, err := a.env.Codec().Encode(res.Observation)
	if err != nil {
		return nil, 0, false, nil, fmt.Errorf("encoding step observation: %w", err)
	}
	return vec, res.Reward, res.Terminated, toInfo(res.Info), nil
}

// ObservationSize returns the length of every observation vector.
func (a *Adapter) ObservationSize() int { return a.env.Codec().Size() }

// ActionCount returns the size of the discrete action space.
func (a *Adapter) ActionCount() int { return a.env.ActionCount() }

// ContinueAction returns the action that advances production.
func (a *Adapter) ContinueAction() int { return a.env.NumConfigs() }

// Decode turns an observation vector back into its structured form.
func (a *Adapter) Decode(vec []float64) (sim.Observation, error) {
	return a.env.Codec().Decode(vec)
}

func toInfo(info sim.Info) Info {
	out := Info{
		InfoMessage:  info.Message,
		InfoBuyIndex: info.BuyIndex,
		InfoStep:     info.StepCount,
	}
	if info.Reason != sim.ReasonNone {
		out[InfoReason] = string(info.Reason)
	}
	return out
}
