package monitor_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/nabbar/gowsgi/monitor"
	"github.com/prometheus/client_golang/prometheus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Monitor", func() {
	Describe("New", func() {
		It("rejects a nil status func", func() {
			_, err := monitor.New("127.0.0.1:0", nil, prometheus.NewRegistry())
			Expect(err).To(HaveOccurred())
		})

		It("rejects a nil registry", func() {
			_, err := monitor.New("127.0.0.1:0", func() monitor.Status { return monitor.Status{} }, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("once running", func() {
		var (
			m      monitor.Monitor
			ctx    context.Context
			cancel context.CancelFunc
		)

		BeforeEach(func() {
			reg := prometheus.NewRegistry()
			metrics := monitor.NewMetrics(reg)
			metrics.ActiveConnections.Set(3)

			var err error
			m, err = monitor.New("127.0.0.1:0", func() monitor.Status {
				return monitor.Status{Running: true, Workers: 2, Uptime: time.Second}
			}, reg)
			Expect(err).ToNot(HaveOccurred())

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			Expect(m.Start(ctx)).To(Succeed())
		})

		AfterEach(func() {
			_ = m.Stop(ctx)
			cancel()
		})

		It("reports IsRunning true while serving", func() {
			Eventually(m.IsRunning, time.Second).Should(BeTrue())
		})

		It("stops cleanly and reports IsRunning false", func() {
			Expect(m.Stop(ctx)).To(Succeed())
			Eventually(m.IsRunning, time.Second).Should(BeFalse())
		})
	})
})

var _ = Describe("Metrics", func() {
	It("registers every collector without panicking", func() {
		reg := prometheus.NewRegistry()
		Expect(func() { monitor.NewMetrics(reg) }).ToNot(Panic())
	})
})

var _ = Describe("healthHandler (via Monitor)", func() {
	It("serves JSON status over HTTP", func() {
		reg := prometheus.NewRegistry()
		m, err := monitor.New("127.0.0.1:0", func() monitor.Status {
			return monitor.Status{Running: true, Workers: 4, Uptime: time.Minute}
		}, reg)
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		Expect(m.Start(ctx)).To(Succeed())
		defer func() { _ = m.Stop(ctx) }()
		Eventually(m.IsRunning, time.Second).Should(BeTrue())
		Expect(m.Addr()).ToNot(BeEmpty())

		resp, err := http.Get("http://" + m.Addr() + "/health")
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = resp.Body.Close() }()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())

		var s monitor.Status
		Expect(json.Unmarshal(body, &s)).To(Succeed())
		Expect(s.Running).To(BeTrue())
		Expect(s.Workers).To(Equal(4))
	})

	It("reports 503 when the status func reports not running", func() {
		reg := prometheus.NewRegistry()
		m, err := monitor.New("127.0.0.1:0", func() monitor.Status {
			return monitor.Status{Running: false}
		}, reg)
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		Expect(m.Start(ctx)).To(Succeed())
		defer func() { _ = m.Stop(ctx) }()
		Eventually(m.IsRunning, time.Second).Should(BeTrue())

		resp, err := http.Get("http://" + m.Addr() + "/health")
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = resp.Body.Close() }()
		Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
	})

	It("serves prometheus collectors on /metrics", func() {
		reg := prometheus.NewRegistry()
		metrics := monitor.NewMetrics(reg)
		metrics.ActiveConnections.Set(7)

		m, err := monitor.New("127.0.0.1:0", func() monitor.Status {
			return monitor.Status{Running: true}
		}, reg)
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		Expect(m.Start(ctx)).To(Succeed())
		defer func() { _ = m.Stop(ctx) }()
		Eventually(m.IsRunning, time.Second).Should(BeTrue())

		resp, err := http.Get("http://" + m.Addr() + "/metrics")
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = resp.Body.Close() }()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("gowsgi_connections_active 7"))
	})
})
