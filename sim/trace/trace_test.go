package trace

import (
	"testing"

	"github.com/google/uuid"
)

func TestEpisodeTrace_Record_AppendsRecord(t *testing.T) {
	// GIVEN a new trace
	et := NewEpisodeTrace(uuid.New(), 42)

	// WHEN a purchase record is recorded
	et.Record(StepRecord{
		Step:            1,
		Action:          0,
		Kind:            KindPurchase,
		ConfigID:        "0",
		Reward:          -5,
		RemainingDemand: 99,
		RemainingTime:   3,
		BuyIndex:        1,
	})

	// THEN the trace contains one record with correct data
	if len(et.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(et.Steps))
	}
	if et.Steps[0].ConfigID != "0" {
		t.Errorf("expected config 0, got %s", et.Steps[0].ConfigID)
	}
	if et.Seed != 42 {
		t.Errorf("expected seed 42, got %d", et.Seed)
	}
}

func TestEpisodeTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	et := NewEpisodeTrace(uuid.New(), 0)

	// WHEN multiple records are added
	et.Record(StepRecord{Step: 1, Kind: KindPurchase, ConfigID: "a"})
	et.Record(StepRecord{Step: 2, Kind: KindProduce})
	et.Record(StepRecord{Step: 3, Kind: KindProduce, Terminated: true, Reason: "demand-satisfied"})

	// THEN order is preserved and Last returns the final record
	for i, s := range et.Steps {
		if s.Step != i+1 {
			t.Errorf("record %d has step %d", i, s.Step)
		}
	}
	last, ok := et.Last()
	if !ok || last.Step != 3 || !last.Terminated {
		t.Errorf("unexpected last record %+v (ok=%v)", last, ok)
	}
}

func TestEpisodeTrace_Last_EmptyAndNil(t *testing.T) {
	if _, ok := NewEpisodeTrace(uuid.Nil, 0).Last(); ok {
		t.Error("expected no last record on an empty trace")
	}
	var et *EpisodeTrace
	if _, ok := et.Last(); ok {
		t.Error("expected no last record on a nil trace")
	}
}

func TestEpisodeID_StablePerSeedAndIndex(t *testing.T) {
	a := EpisodeID(7, 0)
	if a != EpisodeID(7, 0) {
		t.Error("same seed and index must give the same id")
	}
	if a == EpisodeID(7, 1) {
		t.Error("different index must give a different id")
	}
	if a == EpisodeID(8, 0) {
		t.Error("different seed must give a different id")
	}
	if a.Version() != 5 {
		t.Errorf("expected a version 5 uuid, got %d", a.Version())
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"steps", true},
		{"", true}, // empty defaults to none
		{"decisions", false},
		{"foobar", false},
		{"NONE", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}
