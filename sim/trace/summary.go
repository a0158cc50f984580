package trace

// TraceSummary aggregates statistics from an EpisodeTrace.
type TraceSummary struct {
	TotalSteps        int
	PurchaseCount     int // installed purchases; a rejected purchase is not counted
	ProduceCount      int
	TotalReward       float64
	Terminated        bool
	Reason            string
	FinalDemand       float64
	PurchasesByConfig map[string]int // configuration id → number of purchases
}

// Summarize computes aggregate statistics from an EpisodeTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(et *EpisodeTrace) *TraceSummary {
	summary := &TraceSummary{
		PurchasesByConfig: make(map[string]int),
	}
	if et == nil {
		return summary
	}

	summary.TotalSteps = len(et.Steps)
	for _, s := range et.Steps {
		summary.TotalReward += s.Reward
		switch s.Kind {
		case KindPurchase:
			if s.ConfigID != "" {
				summary.PurchaseCount++
				summary.PurchasesByConfig[s.ConfigID]++
			}
		case KindProduce:
			summary.ProduceCount++
		}
	}

	if last, ok := et.Last(); ok {
		summary.Terminated = last.Terminated
		summary.Reason = last.Reason
		summary.FinalDemand = last.RemainingDemand
	}
	return summary
}
