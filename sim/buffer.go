package sim

import (
	"github.com/mf093087/mfgrl/sim/catalog"
)

// readinessEpsilon absorbs floating-point shortfall when setup progress
// accumulates in steps of 1/setupTime (e.g. 3 × 0.333… = 0.999…).
const readinessEpsilon = 1e-9

// Slot is one buffer position. Values are copied from the market at purchase
// time; RecurringCost and ProductionRate may drift under uncertainty.
type Slot struct {
	IncurredCost   float64
	RecurringCost  float64
	ProductionRate float64
	SetupTime      float64
	Readiness      float64 // 0 = empty, (0,1) = setting up, 1 = producing
	ProducedCount  float64
}

// Active reports whether the slot is fully set up. Only active slots pay
// recurring cost and produce.
func (s Slot) Active() bool {
	return s.Readiness >= 1-readinessEpsilon
}

// Purchased reports whether a configuration has been installed in the slot.
func (s Slot) Purchased() bool {
	return s.Readiness > 0
}

// Market is the current, possibly jittered, per-configuration data that
// purchases read. Index i matches catalog configuration i.
type Market struct {
	IncurringCosts  []float64
	RecurringCosts  []float64
	ProductionRates []float64
	SetupTimes      []float64
}

// newMarket copies the catalog into a fresh market snapshot.
func newMarket(cat *catalog.Catalog) Market {
	n := cat.NumConfigs()
	m := Market{
		IncurringCosts:  make([]float64, n),
		RecurringCosts:  make([]float64, n),
		ProductionRates: make([]float64, n),
		SetupTimes:      make([]float64, n),
	}
	for i, e := range cat.Configurations {
		m.IncurringCosts[i] = e.IncurringCost
		m.RecurringCosts[i] = e.RecurringCost
		m.ProductionRates[i] = e.ProductionRate
		m.SetupTimes[i] = e.SetupTime
	}
	return m
}

// Clone returns a deep copy.
func (m Market) Clone() Market {
	return Market{
		IncurringCosts:  append([]float64(nil), m.IncurringCosts...),
		RecurringCosts:  append([]float64(nil), m.RecurringCosts...),
		ProductionRates: append([]float64(nil), m.ProductionRates...),
		SetupTimes:      append([]float64(nil), m.SetupTimes...),
	}
}

// baseline is the post-purchase value of the jittered slot fields, so that
// perturbations are drawn around it instead of compounding.
type baseline struct {
	recurringCost  float64
	productionRate float64
}

// buffer holds installed configurations, filled left to right.
// Invariant: slots[i] is zero for every i >= buyIndex.
type buffer struct {
	slots    [BufferSize]Slot
	static   [BufferSize]baseline
	buyIndex int
}

func (b *buffer) full() bool {
	return b.buyIndex >= BufferSize
}

// clampReadiness bounds readiness to [0,1] and snaps values within epsilon
// of 1 to exactly 1.
func clampReadiness(r float64) float64 {
	switch {
	case r >= 1-readinessEpsilon:
		return 1
	case r < 0:
		return 0
	default:
		return r
	}
}
