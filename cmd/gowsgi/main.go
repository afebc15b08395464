// Command gowsgi is a forking, multi-protocol (HTTP/1.1, HTTP/2,
// FastCGI, WebSocket) application server: spec.md's CLI surface wired to
// this module's engine/listener/socket/fork/protocol packages, shipping
// with a minimal echo Handler since the embedded application's business
// logic is explicitly out of scope (SPEC_FULL.md §1).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nabbar/gowsgi/config"
	"github.com/nabbar/gowsgi/fork"
	"github.com/nabbar/gowsgi/logger"
	"github.com/nabbar/gowsgi/monitor"
	"github.com/nabbar/gowsgi/version"
)

// Set via `-ldflags "-X main.buildRelease=... -X main.buildHash=... -X main.buildDate=..."`.
var (
	buildRelease = "dev"
	buildHash    = "none"
	buildDate    = ""
)

var startedAt = time.Now()

// versionRef anchors version.NewVersion's reflect-based package-path
// derivation to this binary's own import path; an anonymous struct{}
// has no PkgPath, so a named local type is required here.
type versionRef struct{}

func appVersion() version.Version {
	date := buildDate
	if date == "" {
		date = startedAt.Format(time.RFC3339)
	}
	return version.NewVersion(
		version.License_MIT,
		"gowsgi",
		"forking, multi-protocol application server",
		date, buildHash, buildRelease,
		"nabbar", "GOWSGI",
		versionRef{}, 2,
	)
}

// cfg0 is the Config BuildCommand's pflag bindings populate; package-level
// so run (bound to BuildCommand as a func(*cobra.Command, []string) error)
// reaches the same instance main built, without threading an extra
// closure argument through cobra's RunE signature.
var cfg0 = config.Default()

func main() {
	cmd := config.BuildCommand("gowsgi", cfg0, run)
	cmd.Version = buildRelease

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := cfg0
	_ = cmd

	if cfg.Stop != "" {
		return fork.StopByPidFile(cfg.Stop)
	}

	lg := logger.New(context.Background())
	lg.SetLevel(logger.GetLevelString(cfg.LogLevel))
	lg.AddHook(logger.NewHookStdOut(os.Stderr, nil, nil))
	logFn := func() logger.Logger { return lg }

	v := appVersion()
	if err := v.CheckGo("1.21", ">="); err != nil {
		lg.Warning("main: go runtime below the validated constraint", err)
	}
	lg.Info("main: starting", nil, "release", v.GetRelease(), "app_id", v.GetAppId())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	// A re-exec'd worker inherits every master flag verbatim (see
	// fork/master.go's newWorkerCmd); --pidfile (pre-drop) and
	// --monitor-socket belong to the master/standalone role only, never
	// repeated per worker process, so this branch returns before either
	// runs.
	if workerID, ok := fork.IsWorkerProcess(); ok {
		return runWorkerProcess(ctx, cfg, workerID, logFn)
	}

	if cfg.PidFile != "" {
		if err := fork.WritePidFile(cfg.PidFile); err != nil {
			return err
		}
		defer func() { _ = fork.RemovePidFile(cfg.PidFile) }()
	}

	if cfg.MonitorSocket != "" {
		mon, err := startMonitor(ctx, cfg, lg)
		if err != nil {
			return err
		}
		defer func() { _ = mon.Stop(context.Background()) }()
	}

	if cfg.Master {
		processes, err := config.ResolveCount(cfg.Processes)
		if err != nil {
			return err
		}
		forkCfg := fork.Config{
			Processes:    processes,
			Threads:      0, // resolved per-worker from its own re-exec'd --threads flag
			TouchReload:  nil,
			PidFile:      cfg.PidFile,
			PidFile2:     cfg.PidFile2,
			Uid:          cfg.Uid,
			Gid:          cfg.Gid,
			Umask:        cfg.Umask,
			Log:          logFn,
		}
		return fork.NewMaster(forkCfg).Run(ctx)
	}

	// No --master: run as a single, unforked worker process.
	return runWorkerProcess(ctx, cfg, 0, logFn)
}

func startMonitor(ctx context.Context, cfg *config.Config, lg logger.Logger) (monitor.Monitor, error) {
	reg := prometheus.NewRegistry()
	monitor.NewMetrics(reg)

	status := func() monitor.Status {
		return monitor.Status{Running: true, Workers: 1, Uptime: time.Since(startedAt)}
	}

	mon, err := monitor.New(cfg.MonitorSocket, status, reg)
	if err != nil {
		return nil, err
	}
	if err := mon.Start(ctx); err != nil {
		return nil, err
	}
	lg.Info("main: monitor listening", nil, "addr", mon.Addr())
	return mon, nil
}
