// Package testutil provides shared test infrastructure for the mfgrl
// environment: catalog fixtures and assertion helpers used across the
// sim/ test packages.
package testutil

import (
	"math"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mf093087/mfgrl/sim/catalog"
)

// SingleConfigCatalog has one configuration {10, 1, 5, 1} with tradeoff 0.5
// and penalty -100. It is feasible for demand < (demandTime-1)*50.
func SingleConfigCatalog(demand float64, demandTime int) *catalog.Catalog {
	return &catalog.Catalog{
		Demand:           demand,
		DemandTime:       demandTime,
		MaxIncurringCost: 10,
		MaxRecurringCost: 1,
		Tradeoff:         0.5,
		Penalty:          -100,
		Configurations: catalog.Entries{
			{ID: "0", Configuration: catalog.Configuration{IncurringCost: 10, RecurringCost: 1, ProductionRate: 5, SetupTime: 1}},
		},
	}
}

// LoadSampleCatalog loads testdata/data.yaml from the repository root.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadSampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "data.yaml")
	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Failed to load sample catalog: %v", err)
	}
	return cat
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
