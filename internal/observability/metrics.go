package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/recruiting-platform/internal/types"
)

// Metrics records fit scoring activity on a dedicated registry.
// It satisfies fitscore.Recorder and ranking.DurationObserver.
type Metrics struct {
	registry         *prometheus.Registry
	scoresTotal      prometheus.Counter
	overallScore     prometheus.Histogram
	cultureJudgments *prometheus.CounterVec
	rankDuration     prometheus.Histogram
	rankedCandidates prometheus.Counter
}

// NewMetrics creates and registers the fit scoring collectors plus the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scoresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitscore_scores_total",
			Help: "Number of fit scores computed.",
		}),
		overallScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fitscore_overall_score",
			Help:    "Distribution of overall fit scores.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		cultureJudgments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitscore_culture_judgments_total",
			Help: "Culture-fit judgments by outcome.",
		}, []string{"outcome"}),
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fitscore_rank_duration_seconds",
			Help:    "Time taken to rank a batch of candidates.",
			Buckets: prometheus.DefBuckets,
		}),
		rankedCandidates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitscore_ranked_candidates_total",
			Help: "Number of candidates scored through batch ranking.",
		}),
	}

	m.registry.MustRegister(
		m.scoresTotal,
		m.overallScore,
		m.cultureJudgments,
		m.rankDuration,
		m.rankedCandidates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordScore counts a produced result and observes its overall score.
func (m *Metrics) RecordScore(result *types.FitScoreResult) {
	if result == nil {
		return
	}
	m.scoresTotal.Inc()
	m.overallScore.Observe(result.OverallScore)
}

// RecordCultureJudgment counts how a culture-fit sub-score was obtained.
func (m *Metrics) RecordCultureJudgment(source types.CultureSource) {
	m.cultureJudgments.WithLabelValues(string(source)).Inc()
}

// ObserveRankDuration records the duration of one ranking run.
func (m *Metrics) ObserveRankDuration(d time.Duration, candidates int) {
	m.rankDuration.Observe(d.Seconds())
	m.rankedCandidates.Add(float64(candidates))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
