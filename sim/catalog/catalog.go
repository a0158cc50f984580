// Package catalog loads and validates the static market data of the
// manufacturing environment: the episode constants (demand, time budget,
// trade-off weight, penalty) and the ordered list of purchasable
// configurations.
//
// A Catalog is immutable once loaded. Environments copy what they mutate, so a
// single Catalog may be shared read-only by any number of episodes.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidCatalog wraps every malformed-input error returned by Load, Parse and Validate.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrInfeasible is returned by CheckFeasible when demand cannot be met even in the best case.
	ErrInfeasible = errors.New("infeasible catalog")
)

// Configuration is one purchasable production unit type.
type Configuration struct {
	IncurringCost  float64 `yaml:"incurring_cost" validate:"gte=0"`
	RecurringCost  float64 `yaml:"recurring_cost" validate:"gte=0"`
	ProductionRate float64 `yaml:"production_rate" validate:"gt=0"`
	SetupTime      float64 `yaml:"setup_time" validate:"gt=0"`
}

// Catalog is the full data file: episode constants plus configurations in
// document order. Configuration index i is the action that purchases it.
type Catalog struct {
	Demand           float64 `yaml:"demand"`
	DemandTime       int     `yaml:"demand_time" validate:"gt=0"`
	MaxIncurringCost float64 `yaml:"max_incurring_cost" validate:"gte=0"`
	MaxRecurringCost float64 `yaml:"max_recurring_cost" validate:"gte=0"`
	Tradeoff         float64 `yaml:"tradeoff" validate:"gte=0,lte=1"`
	Penalty          float64 `yaml:"penalty"`
	Configurations   Entries `yaml:"configurations" validate:"min=1,dive"`
}

// Load reads and parses a catalog file. YAML and JSON are both accepted.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("Loaded catalog %s with %d configurations", path, cat.NumConfigs())
	return cat, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: parsing catalog: %w", ErrInvalidCatalog, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks every field against its declared bounds.
func (c *Catalog) Validate() error {
	if err := newValidator().Validate(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return nil
}

// Warnings lists legal but suspicious settings.
func (c *Catalog) Warnings() []string {
	var warnings []string
	if c.Tradeoff == 0 || c.Tradeoff == 1 {
		warnings = append(warnings, fmt.Sprintf("tradeoff=%v ignores one side of the cost signal", c.Tradeoff))
	}
	return warnings
}

// NumConfigs returns the number of purchasable configurations.
func (c *Catalog) NumConfigs() int {
	return len(c.Configurations)
}

// Scaled returns a copy with incurring and recurring costs divided by their
// configured maxima. Both maxima must be positive.
func (c *Catalog) Scaled() (*Catalog, error) {
	if c.MaxIncurringCost <= 0 || c.MaxRecurringCost <= 0 {
		return nil, fmt.Errorf("%w: cost scaling needs positive max_incurring_cost and max_recurring_cost, got %v and %v",
			ErrInvalidCatalog, c.MaxIncurringCost, c.MaxRecurringCost)
	}
	out := *c
	out.Configurations = make(Entries, len(c.Configurations))
	for i, e := range c.Configurations {
		e.IncurringCost /= c.MaxIncurringCost
		e.RecurringCost /= c.MaxRecurringCost
		out.Configurations[i] = e
	}
	return &out, nil
}

// CheckFeasible rejects catalogs whose demand cannot be satisfied even when
// every buffer slot holds the fastest configuration.
func (c *Catalog) CheckFeasible(bufferSize int) error {
	if len(c.Configurations) == 0 {
		return fmt.Errorf("%w: no configurations", ErrInvalidCatalog)
	}
	best := 0
	for i, e := range c.Configurations {
		if e.ProductionRate > c.Configurations[best].ProductionRate {
			best = i
		}
	}
	fastest := c.Configurations[best]
	capacity := (float64(c.DemandTime) - fastest.SetupTime) * fastest.ProductionRate * float64(bufferSize)
	if capacity <= c.Demand {
		return fmt.Errorf("%w: best-case output %v of configuration %q does not exceed demand %v",
			ErrInfeasible, capacity, fastest.ID, c.Demand)
	}
	return nil
}
