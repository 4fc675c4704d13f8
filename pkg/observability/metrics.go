/*
Package observability provides ready-made Prometheus instrumentation for the
engine's lifecycle hooks. Hosts that want custom metrics can register their
own hooks instead; this package only covers the common counters.
*/
package observability

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine collectors.
type Metrics struct {
	runsStarted    prometheus.Counter
	runsFinished   *prometheus.CounterVec
	nodeExecutions *prometheus.CounterVec
	runDuration    prometheus.Histogram
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_runs_started_total",
			Help: "Total number of runs started",
		}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arbor_runs_finished_total",
			Help: "Total number of runs finished, by terminal status",
		}, []string{"status"}),
		nodeExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arbor_node_executions_total",
			Help: "Total number of node executions",
		}, []string{"node_id"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "arbor_run_duration_seconds",
			Help: "Wall-clock duration of finished runs",
		}),
	}
	reg.MustRegister(m.runsStarted, m.runsFinished, m.nodeExecutions, m.runDuration)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.runsStarted.Inc()
		},
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.nodeExecutions.WithLabelValues(e.NodeID).Inc()
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			m.runsFinished.WithLabelValues(string(e.Status)).Inc()
			m.runDuration.Observe(e.Elapsed.Seconds())
		},
	}
}
