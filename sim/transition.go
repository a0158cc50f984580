package sim

import (
	"math"

	"github.com/mf093087/mfgrl/sim/catalog"
)

// episode is the state created by Reset and mutated only by the two
// transition operators and the uncertainty injector.
type episode struct {
	cat             *catalog.Catalog
	remainingDemand float64
	remainingTime   int
	buf             buffer
	market          Market
}

func newEpisode(cat *catalog.Catalog) *episode {
	return &episode{
		cat:             cat,
		remainingDemand: cat.Demand,
		remainingTime:   cat.DemandTime,
		market:          newMarket(cat),
	}
}

// purchase installs configuration cfgID, priced at the current market
// snapshot, into the next free slot. It does not advance time.
// Callers must check buf.full() and 0 <= cfgID < NumConfigs first.
func (ep *episode) purchase(cfgID int) float64 {
	idx := ep.buf.buyIndex
	m := ep.market
	ep.buf.slots[idx] = Slot{
		IncurredCost:   m.IncurringCosts[cfgID],
		RecurringCost:  m.RecurringCosts[cfgID],
		ProductionRate: m.ProductionRates[cfgID],
		SetupTime:      m.SetupTimes[cfgID],
		Readiness:      clampReadiness(1 / m.SetupTimes[cfgID]),
	}
	ep.buf.static[idx] = baseline{
		recurringCost:  m.RecurringCosts[cfgID],
		productionRate: m.ProductionRates[cfgID],
	}
	ep.buf.buyIndex++
	return -ep.cat.Tradeoff * m.IncurringCosts[cfgID]
}

// advanceProduction runs one time unit: active slots pay recurring cost and
// produce, then every purchased slot progresses its setup. A slot that
// becomes active here first produces on the next call.
func (ep *episode) advanceProduction() float64 {
	var recurring float64
	for i := range ep.buf.slots {
		s := &ep.buf.slots[i]
		if s.Active() {
			recurring += s.RecurringCost
			s.ProducedCount += s.ProductionRate
		}
	}

	var produced float64
	for i := range ep.buf.slots {
		s := &ep.buf.slots[i]
		if s.Purchased() && s.SetupTime > 0 {
			s.Readiness = clampReadiness(s.Readiness + 1/s.SetupTime + readinessEpsilon)
		}
		produced += math.Trunc(s.ProducedCount)
	}

	ep.remainingDemand = ep.cat.Demand - produced
	ep.remainingTime--
	return -(1 - ep.cat.Tradeoff) * recurring
}

// observe snapshots the episode. The returned value shares no memory with ep.
func (ep *episode) observe() Observation {
	return Observation{
		RemainingDemand: ep.remainingDemand,
		RemainingTime:   ep.remainingTime,
		Buffer:          ep.buf.slots,
		Market:          ep.market.Clone(),
	}
}
