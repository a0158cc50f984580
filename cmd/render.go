package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mf093087/mfgrl/sim"
)

// textRenderer prints the environment state after every reset and step.
type textRenderer struct {
	w io.Writer
}

func newTextRenderer(w io.Writer) *textRenderer {
	return &textRenderer{w: w}
}

func (r *textRenderer) Render(f sim.Frame) {
	obs := f.Observation
	if f.Action < 0 {
		fmt.Fprintf(r.w, "=== reset | demand %g | time %d ===\n", obs.RemainingDemand, obs.RemainingTime)
	} else {
		fmt.Fprintf(r.w, "=== step %d | action %d | reward %.4f | total %.4f ===\n",
			f.Step, f.Action, f.Reward, f.TotalReward)
		fmt.Fprintf(r.w, "remaining demand %g, remaining time %d\n", obs.RemainingDemand, obs.RemainingTime)
	}

	w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tINCURRED\tRECURRING\tRATE\tSETUP\tREADINESS\tPRODUCED")
	fmt.Fprintln(w, "----\t--------\t---------\t----\t-----\t---------\t--------")
	for i, s := range obs.Buffer {
		if !s.Purchased() {
			continue
		}
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			i, s.IncurredCost, s.RecurringCost, s.ProductionRate, s.SetupTime, s.Readiness, s.ProducedCount)
	}
	_ = w.Flush()
}
