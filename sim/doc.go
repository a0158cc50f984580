// Package sim provides the discrete-time simulation engine for mfgrl, a
// manufacturing buffer-filling environment for reinforcement learning.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - buffer.go: Slot and Market state, readiness quantization
//   - transition.go: the purchase and continue-production operators
//   - environment.go: the episode controller (Reset/Step, termination branches)
//
// # Architecture
//
// An agent repeatedly either purchases a configuration into the next free
// buffer slot or lets installed configurations produce for one time unit,
// until demand is met or the time/step budget runs out.
//
//	Step(action) → purchase | advanceProduction → uncertainty (stochastic only)
//	             → termination check → Observation
//
// Supporting packages:
//   - sim/catalog/: data file loading, validation, cost scaling, feasibility
//   - sim/gym/: thin Reset/Step adapter returning flat observation vectors
//   - sim/trace/: per-step decision records
//   - sim/rollout/: baseline policies, episode runner, metrics
//
// # Determinism
//
// All randomness comes from the PartitionedRNG injected at construction. The
// market and production passes draw from separate subsystems, so a fixed
// SimulationKey and a fixed action sequence always replay the same trajectory.
package sim
