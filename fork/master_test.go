//go:build unix

package fork

import (
	"context"
	"os"
	"os/exec"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stubWorkerCmd swaps newWorkerCmd for the duration of a spec so the
// master's lifecycle logic spawns a harmless "sleep" process instead of
// re-exec'ing the real test binary.
func stubWorkerCmd() func() {
	orig := newWorkerCmd
	newWorkerCmd = func(workerID int) *exec.Cmd {
		return exec.Command("sleep", "100")
	}
	return func() { newWorkerCmd = orig }
}

func (m *master) childCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.children)
}

var _ = Describe("Master", func() {
	var restore func()

	BeforeEach(func() {
		restore = stubWorkerCmd()
	})

	AfterEach(func() {
		restore()
	})

	It("spawns the configured number of worker slots and shuts down on ctx cancel", func() {
		m := newMaster(Config{Processes: 2, GracefulTimeout: 150 * time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- m.Run(ctx) }()

		Eventually(m.childCount, 2*time.Second).Should(Equal(2))

		cancel()

		Eventually(done, 5*time.Second).Should(Receive())
		Eventually(m.childCount, 2*time.Second).Should(Equal(0))
	})

	It("respawns a worker slot that dies unexpectedly", func() {
		m := newMaster(Config{Processes: 1, GracefulTimeout: time.Second})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- m.Run(ctx) }()

		Eventually(m.childCount, 2*time.Second).Should(Equal(1))

		m.mu.Lock()
		var pid int
		for _, c := range m.children {
			pid = c.cmd.Process.Pid
		}
		m.mu.Unlock()
		Expect(pid).ToNot(BeZero())

		proc, err := os.FindProcess(pid)
		Expect(err).ToNot(HaveOccurred())
		Expect(proc.Kill()).To(Succeed())

		// the dead slot should be respawned with a new pid.
		Eventually(func() int {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, c := range m.children {
				return c.cmd.Process.Pid
			}
			return 0
		}, 2*time.Second).ShouldNot(Equal(pid))

		cancel()
		Eventually(done, 5*time.Second).Should(Receive())
	})
})
