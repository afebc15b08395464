package fork

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/nabbar/gowsgi/engine"
	"github.com/nabbar/gowsgi/logger"
)

type child struct {
	workerID     int
	cmd          *exec.Cmd
	wantRestart  bool
	respawnCount int
}

type master struct {
	cfg Config

	mu       sync.Mutex
	children map[int]*child

	processes int // live copy of cfg.Processes, decremented on cheap exits

	terminating   bool
	shutdownStage int

	eng engine.Engine

	sigMu    sync.Mutex
	sigQueue []os.Signal
}

func newMaster(cfg Config) *master {
	if cfg.GracefulTimeout <= 0 {
		cfg.GracefulTimeout = 30 * time.Second
	}
	if cfg.Processes <= 0 {
		cfg.Processes = 1
	}
	return &master{
		cfg:       cfg,
		children:  make(map[int]*child, cfg.Processes),
		processes: cfg.Processes,
	}
}

func (m *master) log() logger.Logger {
	if m.cfg.Log == nil {
		return nil
	}
	return m.cfg.Log()
}

func (m *master) Run(ctx context.Context) error {
	eng, err := engine.New(engine.Config{Log: m.cfg.Log})
	if err != nil {
		return err
	}
	m.eng = eng

	sigCh := make(chan os.Signal, 8)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP)

	sigR, sigW, err := os.Pipe()
	if err != nil {
		return ErrorSpawnFailed.Error(err)
	}
	defer func() { _ = sigR.Close(); _ = sigW.Close() }()

	go func() {
		for s := range sigCh {
			m.sigMu.Lock()
			m.sigQueue = append(m.sigQueue, s)
			m.sigMu.Unlock()
			_, _ = sigW.Write([]byte{1})
		}
	}()

	if err = eng.Watch(int(sigR.Fd()), true, false, func(_ int, _, _ bool) {
		var buf [64]byte
		_, _ = sigR.Read(buf[:])
		m.drainSignals()
	}); err != nil {
		return err
	}

	eng.Every(time.Second, engine.ClassCoarse, m.decayRespawn)

	if len(m.cfg.TouchReload) > 0 {
		if err = m.startTouchReload(eng); err != nil {
			return err
		}
	}

	for i := 1; i <= m.processes; i++ {
		m.spawnWorker(i)
	}
	if len(m.children) == 0 {
		return ErrorNoWorkerSlot.Error()
	}

	go func() {
		<-ctx.Done()
		eng.Post(m.beginShutdown)
	}()

	return eng.Run()
}

func (m *master) drainSignals() {
	m.sigMu.Lock()
	pending := m.sigQueue
	m.sigQueue = nil
	m.sigMu.Unlock()

	for _, s := range pending {
		switch s {
		case syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM:
			m.beginShutdown()
		case syscall.SIGHUP:
			// reserved, per spec.md §4.7 — swallow rather than let the
			// default disposition terminate the master.
		}
	}
}

// beginShutdown escalates: first call sends QUIT and arms the graceful
// timeout, the next sends TERM, any further call sends KILL.
func (m *master) beginShutdown() {
	m.mu.Lock()
	m.terminating = true
	m.shutdownStage++
	stage := m.shutdownStage
	pids := m.pidsLocked()
	m.mu.Unlock()

	if len(pids) == 0 {
		m.eng.Stop()
		return
	}

	switch stage {
	case 1:
		m.signalAll(pids, syscall.SIGQUIT)
		m.eng.AfterFunc(m.cfg.GracefulTimeout, engine.ClassCoarse, m.beginShutdown)
	case 2:
		m.signalAll(pids, syscall.SIGTERM)
		m.eng.AfterFunc(m.cfg.GracefulTimeout, engine.ClassCoarse, m.beginShutdown)
	default:
		m.signalAll(pids, syscall.SIGKILL)
	}
}

func (m *master) signalAll(pids []int, sig syscall.Signal) {
	for _, pid := range pids {
		_ = syscall.Kill(pid, sig)
	}
}

func (m *master) pidsLocked() []int {
	pids := make([]int, 0, len(m.children))
	for _, c := range m.children {
		if c.cmd.Process != nil {
			pids = append(pids, c.cmd.Process.Pid)
		}
	}
	return pids
}

// Restart gracefully recycles every worker slot: QUIT is sent and the
// slot is unconditionally respawned once the process exits, bypassing
// the crash backoff counter.
func (m *master) Restart() {
	m.mu.Lock()
	pids := make([]int, 0, len(m.children))
	for _, c := range m.children {
		c.wantRestart = true
		if c.cmd.Process != nil {
			pids = append(pids, c.cmd.Process.Pid)
		}
	}
	m.mu.Unlock()
	m.signalAll(pids, syscall.SIGQUIT)
}

func (m *master) decayRespawn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.children {
		if c.respawnCount > 0 {
			c.respawnCount--
		}
	}
}

// newWorkerCmd builds the exec.Cmd used to respawn worker slot
// workerID; overridden in tests so the master's lifecycle logic can be
// exercised against a harmless stand-in process instead of re-exec'ing
// the real binary under test.
var newWorkerCmd = func(workerID int) *exec.Cmd {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Env = append(os.Environ(),
		EnvWorkerMarker+"=1",
		EnvWorkerID+"="+strconv.Itoa(workerID),
	)
	return cmd
}

func (m *master) spawnWorker(workerID int) {
	cmd := newWorkerCmd(workerID)

	if err := cmd.Start(); err != nil {
		if l := m.log(); l != nil {
			l.Error("fork: failed to spawn worker", nil, "worker_id", workerID, "error", err)
		}
		return
	}

	c := &child{workerID: workerID, cmd: cmd}
	m.mu.Lock()
	if prev, ok := m.children[workerID]; ok {
		c.respawnCount = prev.respawnCount
	}
	m.children[workerID] = c
	m.mu.Unlock()

	go func() {
		waitErr := cmd.Wait()
		m.eng.Post(func() { m.onChildExited(c, waitErr) })
	}()
}

func (m *master) onChildExited(c *child, waitErr error) {
	m.mu.Lock()
	if cur, ok := m.children[c.workerID]; !ok || cur != c {
		m.mu.Unlock()
		return // slot was already replaced
	}
	delete(m.children, c.workerID)
	terminating := m.terminating
	wantRestart := c.wantRestart
	m.mu.Unlock()

	exitCode := exitCodeOf(waitErr)

	if terminating {
		m.mu.Lock()
		remaining := len(m.children)
		m.mu.Unlock()
		if remaining == 0 {
			m.eng.Stop()
		}
		return
	}

	if !wantRestart && exitCode == CheapExitCode {
		if l := m.log(); l != nil {
			l.Info("fork: worker cheaped, not respawning", nil, "worker_id", c.workerID)
		}
		m.mu.Lock()
		m.processes--
		remaining := m.processes
		m.mu.Unlock()
		if remaining <= 0 {
			m.eng.Stop()
		}
		return
	}

	if l := m.log(); l != nil {
		l.Warning("fork: worker died, respawning", nil, "worker_id", c.workerID, "exit_code", exitCode)
	}

	m.mu.Lock()
	if !wantRestart {
		c.respawnCount++
	}
	count := c.respawnCount
	m.mu.Unlock()

	// the slot was deleted above, so the new child inherits the count here.
	respawn := func() {
		m.spawnWorker(c.workerID)
		m.mu.Lock()
		if nc, ok := m.children[c.workerID]; ok {
			nc.respawnCount = count
		}
		m.mu.Unlock()
	}

	if wantRestart || count < 5 {
		respawn()
		return
	}

	m.eng.AfterFunc(2*time.Second, engine.ClassCoarse, respawn)
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
