// Package fork implements spec.md §4.7's worker/master lifecycle: a
// master process that binds listening sockets, drops privileges, forks
// (by re-executing itself) N worker processes each running M threads,
// reaps and respawns crashed workers with a decaying backoff, and
// escalates shutdown signals from graceful to forced.
//
// Go has no safe fork(2)-without-exec once goroutines are running, so
// where the original forks and continues running the same process
// image, this package re-execs the current binary (os.Executable, else
// os.Args[0]) with an environment marker instead (the same "self-exec"
// trick used by every production Go prefork server); IsWorkerProcess
// detects the marker on the other side and RunWorker runs the worker side.
package fork

import (
	"context"
	"time"

	"github.com/nabbar/gowsgi/logger"
)

// Env vars IsWorkerProcess looks for to recognize a re-exec'd worker process.
const (
	EnvWorkerMarker = "GOWSGI_WORKER"
	EnvWorkerID     = "GOWSGI_WORKER_ID"
)

// CheapExitCode is the exit status a worker uses to signal a deliberate,
// permanent abdication (spec.md §4.7: "exits cleanly with status 15 is
// not respawned").
const CheapExitCode = 15

// ThreadFunc is run once per worker thread (an independent engine.Engine
// and its own connections, spec.md §5's scheduling model). Returning
// nil means the thread exited cleanly and should not be restarted by
// itself; the worker process as a whole exits once every thread's
// ThreadFunc returns.
type ThreadFunc func(ctx context.Context, workerID, threadID int) error

// Config carries every master/worker lifecycle knob from spec.md §6's
// CLI flags that the fork package itself consumes.
type Config struct {
	Processes int
	Threads   int
	Lazy      bool

	GracefulTimeout time.Duration // default 30s, escalates QUIT->TERM->KILL

	TouchReload []string // paths watched for an mtime change -> graceful restart

	PidFile  string // written before privilege drop
	PidFile2 string // written after privilege drop

	Uid          string
	Gid          string
	Umask        string
	NoInitGroups bool

	Log logger.FuncLog
}

// Master supervises the worker pool for the lifetime of ctx.
type Master interface {
	// Run spawns the initial worker pool and blocks, reaping and
	// respawning crashed workers and reacting to INT/QUIT/TERM/CHLD,
	// until ctx is canceled or a terminal shutdown signal escalates
	// all the way to SIGKILL.
	Run(ctx context.Context) error

	// Restart triggers a rolling graceful restart of every worker
	// (used by the touch-reload watcher and can be wired to SIGHUP).
	Restart()
}

// NewMaster builds a Master that, for each of cfg.Processes worker
// slots, re-execs the current binary with EnvWorkerMarker/EnvWorkerID
// set so IsWorkerProcess on the other side reports the worker role.
func NewMaster(cfg Config) Master {
	return newMaster(cfg)
}
