// Package trace provides per-step decision recording for episode analysis.
// It has no dependencies on sim/ and stores pure data types.
package trace

// ActionKind says which operator a step applied.
type ActionKind string

const (
	KindPurchase ActionKind = "purchase"
	KindProduce  ActionKind = "produce"
)

// StepRecord captures one accepted action and the state it left behind.
type StepRecord struct {
	Step            int        `yaml:"step"`
	Action          int        `yaml:"action"`
	Kind            ActionKind `yaml:"kind"`
	ConfigID        string     `yaml:"config_id,omitempty"` // set when a purchase was installed
	Reward          float64    `yaml:"reward"`
	RemainingDemand float64    `yaml:"remaining_demand"`
	RemainingTime   int        `yaml:"remaining_time"`
	BuyIndex        int        `yaml:"buy_index"`
	Terminated      bool       `yaml:"terminated,omitempty"`
	Reason          string     `yaml:"reason,omitempty"` // termination reason, set on the final step
}
