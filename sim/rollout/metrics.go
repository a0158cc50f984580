package rollout

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	namespace = "mfgrl"
	subsystem = "rollout"
)

// Recorder collects rollout metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	episodesTotal  *prometheus.CounterVec
	episodeReward  *prometheus.HistogramVec
	episodeSteps   *prometheus.HistogramVec
	purchasesTotal *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its metrics.
func NewRecorder() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		episodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "episodes_total",
				Help:      "Completed episodes by policy and termination reason",
			},
			[]string{"policy", "reason"},
		),

		episodeReward: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "episode_reward",
				Help:      "Cumulative reward per episode",
				Buckets:   []float64{-1000, -500, -200, -100, -50, -20, -10, -5, -1, 0},
			},
			[]string{"policy"},
		),

		episodeSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "episode_steps",
				Help:      "Accepted actions per episode",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"policy"},
		),

		purchasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "purchases_total",
				Help:      "Installed purchases by policy and configuration",
			},
			[]string{"policy", "configuration"},
		),
	}

	metrics := []prometheus.Collector{
		r.episodesTotal,
		r.episodeReward,
		r.episodeSteps,
		r.purchasesTotal,
	}
	for _, metric := range metrics {
		if err := r.registry.Register(metric); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RecordPurchase counts one installed purchase.
func (r *Recorder) RecordPurchase(policy, configID string) {
	r.purchasesTotal.WithLabelValues(policy, configID).Inc()
}

// RecordEpisode observes one finished episode.
func (r *Recorder) RecordEpisode(res EpisodeResult) {
	r.episodesTotal.WithLabelValues(res.Policy, res.Reason).Inc()
	r.episodeReward.WithLabelValues(res.Policy).Observe(res.TotalReward)
	r.episodeSteps.WithLabelValues(res.Policy).Observe(float64(res.Steps))
}

// WriteText writes every registered metric in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
