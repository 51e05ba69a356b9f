// Package metrics instruments solver runs with Prometheus counters and a
// histogram,
// the instrumentation library gyaan-fluxflow and AleutianLocal both depend
// on. Instruments are registered against a caller-supplied registry so the
// core stays agnostic of any HTTP exposition endpoint (out of scope per
// spec.md §1).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder holds the Prometheus instruments for one solver deployment.
// Construct once per *prometheus.Registry and reuse across Solve calls.
type Recorder struct {
	highLevelExpanded  prometheus.Counter
	lowLevelExpansions prometheus.Counter
	solveDuration      prometheus.Histogram
	solutionsFound     prometheus.Counter
	solutionsNotFound  *prometheus.CounterVec
}

// NewRecorder registers its instruments against reg and returns the
// Recorder. Calling NewRecorder twice against the same registry panics
// (Prometheus's own duplicate-registration guard), matching the library's
// usual single-registration-per-process idiom.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		highLevelExpanded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccbs_high_level_expanded_total",
			Help: "Cumulative count of high-level constraint-tree nodes expanded.",
		}),
		lowLevelExpansions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccbs_low_level_expansions_total",
			Help: "Cumulative count of SIPP low-level planner invocations.",
		}),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ccbs_solve_duration_seconds",
			Help:    "Wall-clock duration of a single Solve call.",
			Buckets: prometheus.DefBuckets,
		}),
		solutionsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccbs_solutions_found_total",
			Help: "Count of Solve calls that returned found=true.",
		}),
		solutionsNotFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ccbs_solutions_not_found_total",
			Help: "Count of Solve calls that returned found=false, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(r.highLevelExpanded, r.lowLevelExpansions, r.solveDuration, r.solutionsFound, r.solutionsNotFound)
	return r
}

// Observe records one completed Solve call's counters.
func (r *Recorder) Observe(found bool, reason string, highLevelExpanded, lowLevelExpansions int, durationSeconds float64) {
	r.highLevelExpanded.Add(float64(highLevelExpanded))
	r.lowLevelExpansions.Add(float64(lowLevelExpansions))
	r.solveDuration.Observe(durationSeconds)
	if found {
		r.solutionsFound.Inc()
		return
	}
	r.solutionsNotFound.WithLabelValues(reason).Inc()
}
