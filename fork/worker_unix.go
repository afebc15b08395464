//go:build unix

package fork

import (
	"context"
	"os"
	"os/signal"
	"os/user"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// IsWorkerProcess reports whether the current process was re-exec'd by
// a Master as a worker (EnvWorkerMarker set), returning the worker slot
// id it was told to run as.
func IsWorkerProcess() (workerID int, ok bool) {
	if os.Getenv(EnvWorkerMarker) == "" {
		return 0, false
	}
	id, err := strconv.Atoi(os.Getenv(EnvWorkerID))
	if err != nil {
		return 0, true
	}
	return id, true
}

// RunWorker runs cfg.Threads independent ThreadFunc goroutines (spec.md
// §4.7's "run an Engine per thread"), canceling them on SIGQUIT/SIGTERM/
// SIGINT or parent context cancellation, and returns once every thread
// has exited.
func RunWorker(parent context.Context, cfg Config, workerID int, fn ThreadFunc) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	threads := cfg.Threads
	if threads <= 0 {
		threads = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		tid := t
		g.Go(func() error {
			return fn(gctx, workerID, tid)
		})
	}
	return g.Wait()
}

// DropPrivileges applies cfg.Umask/Gid/Uid in the order the original
// master does: umask, then setgid (+groups), then setuid — so the
// process never holds a dropped gid while still retaining the starting
// uid (spec.md §4.7, grounded on unixfork.cpp's setGidUid/setUmask).
func DropPrivileges(cfg Config) error {
	if cfg.Umask != "" {
		mode, err := parseUmask(cfg.Umask)
		if err != nil {
			return ErrorPrivilegeDrop.Error(err)
		}
		unix.Umask(mode)
	}

	if cfg.Gid != "" {
		gid, err := resolveGid(cfg.Gid)
		if err != nil {
			return ErrorPrivilegeDrop.Error(err)
		}
		if err = unix.Setgid(gid); err != nil {
			return ErrorPrivilegeDrop.Error(err)
		}
		if cfg.NoInitGroups || cfg.Uid == "" {
			if err = unix.Setgroups(nil); err != nil {
				return ErrorPrivilegeDrop.Error(err)
			}
		} else if err = unix.Setgroups([]int{gid}); err != nil {
			return ErrorPrivilegeDrop.Error(err)
		}
	}

	if cfg.Uid != "" {
		uid, err := resolveUid(cfg.Uid)
		if err != nil {
			return ErrorPrivilegeDrop.Error(err)
		}
		if err = unix.Setuid(uid); err != nil {
			return ErrorPrivilegeDrop.Error(err)
		}
	}

	return nil
}

func parseUmask(s string) (int, error) {
	v, err := strconv.ParseInt(s, 8, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func resolveUid(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	u, err := user.Lookup(s)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(u.Uid)
}

func resolveGid(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	g, err := user.LookupGroup(s)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(g.Gid)
}
