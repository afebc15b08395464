package main

import (
	"context"
	"net/http"
	"time"

	"github.com/nabbar/gowsgi/config"
	"github.com/nabbar/gowsgi/engine"
	"github.com/nabbar/gowsgi/fork"
	"github.com/nabbar/gowsgi/logger"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/socket"
)

// httpDate is the Date header value every protocol front-end stamps on
// its responses; RFC1123/GMT per spec.md §4.1, computed directly rather
// than cached per-engine since it is shared read-only across every
// thread's Engine in this process (see runWorkerProcess).
func httpDate() string {
	return time.Now().UTC().Format(http.TimeFormat)
}

// runWorkerProcess is this binary's side of spec.md §4.7's worker
// duties: bind every configured listening socket once for the whole
// process (before dropping privileges, mirroring the original's "bind
// before privilege drop"), then run cfg.Threads independent Engines,
// each fanning out accepts from the same bound listener set — the
// "balanced" mode SPEC_FULL.md §4.2 describes. --reuse-port deployments
// instead run one worker PROCESS per kernel-balanced listener, which is
// exactly what listener.Config.ReusePort arranges at bind time.
func runWorkerProcess(ctx context.Context, cfg *config.Config, workerID int, logFn logger.FuncLog) error {
	lns, err := bindAll(cfg, httpDate)
	if err != nil {
		return err
	}
	defer closeAll(lns)

	if err := fork.DropPrivileges(fork.Config{Uid: cfg.Uid, Gid: cfg.Gid, Umask: cfg.Umask}); err != nil {
		return err
	}
	if cfg.PidFile2 != "" {
		if err := fork.WritePidFile(cfg.PidFile2); err != nil {
			return err
		}
		defer func() { _ = fork.RemovePidFile(cfg.PidFile2) }()
	}

	handler := newEchoHandler(logFn)
	handler.PostForkInit(workerID)

	threads, err := config.ResolveCount(cfg.Threads)
	if err != nil {
		return err
	}

	forkCfg := fork.Config{Threads: threads, Log: logFn}
	return fork.RunWorker(ctx, forkCfg, workerID, func(ctx context.Context, workerID, threadID int) error {
		return runThread(ctx, cfg, lns, handler, workerID, threadID, logFn)
	})
}

// runThread is one fork.ThreadFunc: it owns a single Engine and fans out
// accepts from every listener bindAll already bound for this process
// (spec.md §4.1's "run an Engine per thread").
func runThread(ctx context.Context, cfg *config.Config, lns []boundListener, handler request.Handler, workerID, threadID int, logFn logger.FuncLog) error {
	eng, err := engine.New(engine.Config{
		IdleTimeout: cfg.SocketTimeout,
		Log:         logFn,
	})
	if err != nil {
		return err
	}

	socketCfg := socket.Config{
		BufferSize:       cfg.BufferSize,
		H2CEnabled:       cfg.UpgradeH2C,
		WebSocketMaxSize: cfg.WebSocketMaxSize * 1024,
	}

	for _, bl := range lns {
		go acceptLoop(ctx, eng, bl, socketCfg, handler, logFn)
	}

	go func() {
		<-ctx.Done()
		if sa, ok := handler.(request.ShutdownAware); ok {
			sa.ShuttingDown()
		}
		eng.Stop()
	}()

	_ = workerID
	_ = threadID
	return eng.Run()
}

// acceptLoop blocks on Accept and hands every accepted stream to the
// engine's loop goroutine via Post+Register, matching Engine.Register's
// documented "call only from the loop goroutine" contract. Several
// threads calling Accept on the same shared listener is exactly the
// "balanced" fan-out SPEC_FULL.md §4.2 describes.
func acceptLoop(ctx context.Context, eng engine.Engine, bl boundListener, cfg socket.Config, handler request.Handler, logFn logger.FuncLog) {
	for {
		stream, err := bl.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if l := logFn2(logFn); l != nil {
				l.Warning("worker: accept failed", err)
			}
			continue
		}

		sock := socket.New(stream, bl.proto, cfg)
		eng.Post(func() {
			if _, err := eng.Register(sock, handler); err != nil {
				if l := logFn2(logFn); l != nil {
					l.Warning("worker: register failed", err)
				}
				_ = sock.Close()
			}
		})
	}
}

func logFn2(fn logger.FuncLog) logger.Logger {
	if fn == nil {
		return nil
	}
	return fn()
}
