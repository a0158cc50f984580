package sim

import (
	"errors"
	"fmt"
)

// ErrObservationShape is returned when a vector or observation does not match the codec's dimensions.
var ErrObservationShape = errors.New("observation shape mismatch")

// Observation is the full caller-visible state of an episode.
type Observation struct {
	RemainingDemand float64
	RemainingTime   int
	Buffer          [BufferSize]Slot
	Market          Market
}

// slotFields fixes the encoding order of the buffer block. Each field is
// written for all BufferSize slots before the next field starts.
var slotFields = []func(*Slot) *float64{
	func(s *Slot) *float64 { return &s.IncurredCost },
	func(s *Slot) *float64 { return &s.RecurringCost },
	func(s *Slot) *float64 { return &s.ProductionRate },
	func(s *Slot) *float64 { return &s.SetupTime },
	func(s *Slot) *float64 { return &s.Readiness },
	func(s *Slot) *float64 { return &s.ProducedCount },
}

// marketColumns fixes the encoding order of the market block.
var marketColumns = []func(*Market) *[]float64{
	func(m *Market) *[]float64 { return &m.IncurringCosts },
	func(m *Market) *[]float64 { return &m.RecurringCosts },
	func(m *Market) *[]float64 { return &m.ProductionRates },
	func(m *Market) *[]float64 { return &m.SetupTimes },
}

// Codec flattens observations into fixed-length vectors and back:
//
//	[demand, time, slot fields × BufferSize ..., market columns × numCfgs ...]
//
// It is purely structural: values are copied, never checked.
type Codec struct {
	numCfgs int
}

// NewCodec creates a codec for a catalog with numCfgs configurations.
func NewCodec(numCfgs int) *Codec {
	return &Codec{numCfgs: numCfgs}
}

// Size returns the vector length, 2 + 6×BufferSize + 4×numCfgs.
func (c *Codec) Size() int {
	return 2 + len(slotFields)*BufferSize + len(marketColumns)*c.numCfgs
}

// Encode flattens obs. Every market column must have numCfgs entries.
func (c *Codec) Encode(obs Observation) ([]float64, error) {
	for _, col := range marketColumns {
		if n := len(*col(&obs.Market)); n != c.numCfgs {
			return nil, fmt.Errorf("%w: market column has %d entries, want %d", ErrObservationShape, n, c.numCfgs)
		}
	}

	vec := make([]float64, 0, c.Size())
	vec = append(vec, obs.RemainingDemand, float64(obs.RemainingTime))
	for _, field := range slotFields {
		for i := range obs.Buffer {
			vec = append(vec, *field(&obs.Buffer[i]))
		}
	}
	for _, col := range marketColumns {
		vec = append(vec, *col(&obs.Market)...)
	}
	return vec, nil
}

// Decode is the exact inverse of Encode.
func (c *Codec) Decode(vec []float64) (Observation, error) {
	if len(vec) != c.Size() {
		return Observation{}, fmt.Errorf("%w: vector has %d entries, want %d", ErrObservationShape, len(vec), c.Size())
	}

	obs := Observation{
		RemainingDemand: vec[0],
		RemainingTime:   int(vec[1]),
	}
	pos := 2
	for _, field := range slotFields {
		for i := range obs.Buffer {
			*field(&obs.Buffer[i]) = vec[pos]
			pos++
		}
	}
	for _, col := range marketColumns {
		*col(&obs.Market) = append(make([]float64, 0, c.numCfgs), vec[pos:pos+c.numCfgs]...)
		pos += c.numCfgs
	}
	return obs, nil
}
