// Package metrics exposes the pipeline's prometheus instrumentation:
// a private registry plus per-form counters and histograms, solver
// CheckSat instrumentation, and an HTTP server to serve them.
// PipelineDuration is registered but nothing in this module observes
// it.
package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gitrdm/formscope/internal/logging"
)

// Registry is this module's private prometheus registry, kept
// separate from prometheus.DefaultRegisterer so embedding formscope as
// a library never collides with a host process's own metrics.
var Registry = prometheus.NewRegistry()

var (
	FormsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formscope_forms_processed_total",
		Help: "Number of form definitions run through the pipeline, by outcome.",
	}, []string{"outcome"})

	ScenariosSynthesized = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "formscope_scenarios_synthesized",
		Help:    "Number of scenarios in the minimized test plan, per form.",
		Buckets: prometheus.LinearBuckets(1, 2, 10),
	})

	QuestionsTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "formscope_questions_total",
		Help:    "Number of questions in a form definition.",
		Buckets: prometheus.LinearBuckets(1, 5, 10),
	})

	DeadQuestions = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "formscope_dead_questions",
		Help:    "Number of questions found unreachable under any valid assignment, per form.",
		Buckets: prometheus.LinearBuckets(0, 1, 10),
	})

	CoveragePercent = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "formscope_coverage_percent",
		Help:    "Reachable-question coverage percent of the minimized test plan.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	SolverCheckSatTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formscope_solver_checksat_total",
		Help: "Number of Solver.CheckSat calls, by result.",
	}, []string{"result"})

	SolverCheckSatDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "formscope_solver_checksat_duration_seconds",
		Help:    "Wall-clock duration of individual Solver.CheckSat calls.",
		Buckets: prometheus.DefBuckets,
	})

	PipelineDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "formscope_pipeline_stage_duration_seconds",
		Help:    "Wall-clock duration of each pipeline stage, per form run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)

func init() {
	Registry.MustRegister(
		FormsProcessed,
		ScenariosSynthesized,
		QuestionsTotal,
		DeadQuestions,
		CoveragePercent,
		SolverCheckSatTotal,
		SolverCheckSatDuration,
		PipelineDuration,
	)
}

// Start binds a metrics HTTP server to addr and serves Registry at
// /metrics in the background, returning the listener so the caller can
// close it on shutdown. A blank addr disables metrics and returns a
// nil listener with no error.
func Start(ctx context.Context, addr string) (net.Listener, error) {
	if addr == "" {
		return nil, nil
	}
	log := logging.FromContext(ctx)

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics: listen on %q: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))
	srv := &http.Server{Handler: mux}

	go func() {
		log.Infow("metrics: server started", "addr", l.Addr().String())
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Warnw("metrics: server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return l, nil
}
