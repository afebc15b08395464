// Package monitor exposes /health and /metrics over HTTP for operators
// and orchestrators, the ambient observability surface every teacher
// service carries — grounded on the method-shape of nabbar-golib's
// monitor/status test contracts (New/Start/Stop/IsRunning) and
// nabbar-golib/prometheus's registration idiom, rendered against
// github.com/prometheus/client_golang directly since no production
// source for the teacher's generic monitor/status framework was present
// in the retrieval pack (see DESIGN.md).
package monitor

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor serves /health and /metrics for the lifetime between Start
// and Stop.
type Monitor interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool

	// Addr reports the bound listener address, populated once Start
	// succeeds — useful when addr was given with an ephemeral port.
	Addr() string
}

type monitor struct {
	addr    string
	status  StatusFunc
	reg     *prometheus.Registry
	srv     *http.Server
	running atomic.Bool

	mu       sync.Mutex
	boundFor string
}

// New builds a Monitor bound to addr, serving status() on /health and
// reg's collectors on /metrics. Either status or reg being nil is a
// configuration error (mirroring the teacher's "info cannot be nil").
func New(addr string, status StatusFunc, reg *prometheus.Registry) (Monitor, error) {
	if status == nil || reg == nil {
		return nil, ErrorInfoNil.Error()
	}

	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler(status))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &monitor{
		addr:   addr,
		status: status,
		reg:    reg,
		srv:    &http.Server{Handler: mux},
	}, nil
}

func (m *monitor) Start(ctx context.Context) error {
	if m.running.Load() {
		return ErrorAlreadyRunning.Error()
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", m.addr)
	if err != nil {
		return ErrorListen.Error(err)
	}

	m.mu.Lock()
	m.boundFor = ln.Addr().String()
	m.mu.Unlock()

	m.running.Store(true)
	go func() {
		_ = m.srv.Serve(ln)
		m.running.Store(false)
	}()
	return nil
}

func (m *monitor) Stop(ctx context.Context) error {
	if !m.running.Load() {
		return ErrorNotRunning.Error()
	}
	err := m.srv.Shutdown(ctx)
	m.running.Store(false)
	return err
}

func (m *monitor) IsRunning() bool {
	return m.running.Load()
}

func (m *monitor) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boundFor
}
