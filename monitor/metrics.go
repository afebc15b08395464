package monitor

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every Prometheus collector this server registers,
// grounded on the teacher's nabbar-golib/prometheus registration idiom
// (one struct of pre-built collectors, registered once against a
// *prometheus.Registry at construction) but scoped to this server's own
// domain counters rather than the teacher's generic metric-pool
// machinery.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	WorkerProcesses   prometheus.Gauge
	RequestsTotal     *prometheus.CounterVec
	IdleClosesTotal   prometheus.Counter
	WorkerRespawns    prometheus.Counter
}

// NewMetrics builds and registers every collector against reg. Passing
// a fresh *prometheus.Registry (rather than prometheus.DefaultRegisterer)
// keeps this server's metrics independent of anything else sharing the
// process, matching how Monitor serves that same registry on /metrics.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gowsgi",
			Name:      "connections_active",
			Help:      "Number of currently open connections across every worker engine.",
		}),
		WorkerProcesses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gowsgi",
			Name:      "worker_processes",
			Help:      "Number of currently running worker processes.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gowsgi",
			Name:      "requests_total",
			Help:      "Total requests processed, labeled by wire protocol.",
		}, []string{"protocol"}),
		IdleClosesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gowsgi",
			Name:      "idle_closes_total",
			Help:      "Total connections closed by the idle-timeout sweep.",
		}),
		WorkerRespawns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gowsgi",
			Name:      "worker_respawns_total",
			Help:      "Total worker process respawns after a crash.",
		}),
	}

	reg.MustRegister(
		m.ActiveConnections,
		m.WorkerProcesses,
		m.RequestsTotal,
		m.IdleClosesTotal,
		m.WorkerRespawns,
	)
	return m
}
