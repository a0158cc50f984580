package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

const (
	failureProbability = 0.1 // chance per step that one active slot degrades
	failureFloor       = 0.7 // lowest readiness a failure leaves behind
	jitterFraction     = 0.1 // ±10% around the baseline value
)

// uncertaintyInjector perturbs an episode after every transition. Each pass
// draws from its own RNG subsystem, so the passes are independent.
type uncertaintyInjector struct {
	market     *rand.Rand
	production *rand.Rand
}

func newUncertaintyInjector(rng *PartitionedRNG) *uncertaintyInjector {
	return &uncertaintyInjector{
		market:     rng.ForSubsystem(SubsystemMarket),
		production: rng.ForSubsystem(SubsystemProduction),
	}
}

func (u *uncertaintyInjector) apply(ep *episode) {
	u.perturbProduction(ep)
	u.perturbMarket(ep)
}

// perturbProduction degrades one active slot with probability
// failureProbability, then resamples every installed slot's rate and
// recurring cost around its post-purchase baseline.
func (u *uncertaintyInjector) perturbProduction(ep *episode) {
	running := make([]int, 0, BufferSize)
	for i, s := range ep.buf.slots {
		if s.Active() {
			running = append(running, i)
		}
	}
	if len(running) > 0 && u.production.Float64() < failureProbability {
		idx := running[u.production.Intn(len(running))]
		ep.buf.slots[idx].Readiness = uniform(u.production, failureFloor, 1)
		logrus.Debugf("slot %d failed, readiness now %.3f", idx, ep.buf.slots[idx].Readiness)
	}

	for i := range ep.buf.slots {
		base := ep.buf.static[i]
		if base.productionRate > 0 {
			ep.buf.slots[i].ProductionRate = jitter(u.production, base.productionRate)
		}
		if base.recurringCost > 0 {
			ep.buf.slots[i].RecurringCost = jitter(u.production, base.recurringCost)
		}
	}
}

// perturbMarket resamples the market snapshot around the catalog values.
// The catalog itself is never written.
func (u *uncertaintyInjector) perturbMarket(ep *episode) {
	for i, e := range ep.cat.Configurations {
		ep.market.IncurringCosts[i] = jitter(u.market, e.IncurringCost)
		ep.market.RecurringCosts[i] = jitter(u.market, e.RecurringCost)
		ep.market.ProductionRates[i] = jitter(u.market, e.ProductionRate)
		ep.market.SetupTimes[i] = jitter(u.market, e.SetupTime)
	}
}

// jitter draws uniformly from [base-10%, base+10%).
func jitter(r *rand.Rand, base float64) float64 {
	return uniform(r, base-jitterFraction*base, base+jitterFraction*base)
}

// uniform draws from [lo, hi).
func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}
