// Package metrics exposes Prometheus collectors for scheduling runs.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arnavshah/rota-api-go/pkg/calendar"
	"github.com/arnavshah/rota-api-go/pkg/roster"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
)

// Recorder groups the run collectors. The zero value is not usable; use
// NewRecorder.
type Recorder struct {
	reg       *prometheus.Registry
	runs      *prometheus.CounterVec
	solveTime prometheus.Histogram
	people    prometheus.Histogram
	totalCost prometheus.Histogram
}

// NewRecorder registers collectors on a fresh registry
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rota_schedule_runs_total",
			Help: "Scheduling runs by outcome.",
		}, []string{"outcome"}),
		solveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rota_solver_duration_seconds",
			Help:    "Wall time of a full scheduling run.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		people: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rota_schedule_people",
			Help:    "Roster size per successful run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		totalCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rota_schedule_total_cost",
			Help:    "Summed day distance per successful run.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	r.reg.MustRegister(r.runs, r.solveTime, r.people, r.totalCost)
	return r
}

// Registry exposes the underlying registry, mostly for tests
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveRun records one run. plan may be nil when err is set.
func (r *Recorder) ObserveRun(plan *scheduler.Plan, err error, elapsed time.Duration) {
	r.runs.WithLabelValues(Outcome(err)).Inc()
	if err != nil || plan == nil {
		return
	}
	r.solveTime.Observe(elapsed.Seconds())
	r.people.Observe(float64(len(plan.Schedule)))
	r.totalCost.Observe(float64(plan.Solution.Total))
}

// Outcome maps a run error to a metric label
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, calendar.ErrInvalidWindow):
		return "invalid_window"
	case errors.Is(err, calendar.ErrInvalidWeekday), errors.Is(err, calendar.ErrInvalidHoliday):
		return "invalid_input"
	case errors.Is(err, calendar.ErrNoEligibleSlots):
		return "no_eligible_slots"
	case errors.Is(err, calendar.ErrInsufficientSlots):
		return "insufficient_slots"
	case errors.Is(err, scheduler.ErrInfeasibleMatrix), errors.Is(err, scheduler.ErrRaggedMatrix):
		return "infeasible_matrix"
	case errors.Is(err, roster.ErrMalformedRoster):
		return "malformed_roster"
	default:
		return "error"
	}
}
