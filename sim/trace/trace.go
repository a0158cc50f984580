package trace

import (
	"fmt"

	"github.com/google/uuid"
)

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSteps captures every accepted action.
	TraceLevelSteps TraceLevel = "steps"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelSteps: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// episodeNamespace scopes derived episode ids.
var episodeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mfgrl/episode"))

// EpisodeID derives a stable id for the index-th episode of a seeded run,
// so replays of the same run produce the same ids.
func EpisodeID(seed int64, index int) uuid.UUID {
	return uuid.NewSHA1(episodeNamespace, []byte(fmt.Sprintf("%d/%d", seed, index)))
}

// EpisodeTrace collects the step records of one episode.
type EpisodeTrace struct {
	EpisodeID uuid.UUID    `yaml:"episode_id"`
	Seed      int64        `yaml:"seed"`
	Policy    string       `yaml:"policy,omitempty"`
	Steps     []StepRecord `yaml:"steps"`
}

// NewEpisodeTrace creates an EpisodeTrace ready for recording.
func NewEpisodeTrace(id uuid.UUID, seed int64) *EpisodeTrace {
	return &EpisodeTrace{
		EpisodeID: id,
		Seed:      seed,
		Steps:     make([]StepRecord, 0),
	}
}

// Record appends a step record.
func (et *EpisodeTrace) Record(record StepRecord) {
	et.Steps = append(et.Steps, record)
}

// Last returns the most recent record, or false if none were recorded.
func (et *EpisodeTrace) Last() (StepRecord, bool) {
	if et == nil || len(et.Steps) == 0 {
		return StepRecord{}, false
	}
	return et.Steps[len(et.Steps)-1], true
}
