package config

import (
	"github.com/spf13/cobra"
)

// BuildCommand wires spec.md §6's flag table onto a cobra.Command via
// pflag, landing every value into cfg. run is invoked once flags are
// parsed (and, when present, --ini/--json files have been merged in).
func BuildCommand(use string, cfg *Config, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfg.IniFiles) > 0 || len(cfg.JSONFiles) > 0 {
				if err := MergeFiles(cfg); err != nil {
					return err
				}
			}
			return run(cmd, args)
		},
	}

	f := cmd.Flags()

	f.StringArrayVar(&cfg.HTTPSockets, "http-socket", nil, "bind HTTP/1.1 listener ([addr]:port or /path), may repeat")
	f.StringArrayVar(&cfg.HTTPSSockets, "https-socket", nil, "bind TLS listener ([addr]:port,cert,key[,alg]), may repeat")
	f.StringArrayVar(&cfg.HTTP2Sockets, "http2-socket", nil, "bind HTTP/2 listener, may repeat")
	f.StringArrayVar(&cfg.FastCGISockets, "fastcgi-socket", nil, "bind FastCGI listener, may repeat")

	f.BoolVar(&cfg.UpgradeH2C, "upgrade-h2c", false, "allow HTTP/1 -> HTTP/2 upgrade")
	f.BoolVar(&cfg.HTTPSH2, "https-h2", false, "ALPN-negotiate h2 on TLS")

	f.StringVar(&cfg.Threads, "threads", cfg.Threads, "threads per worker, int or auto")
	f.StringVar(&cfg.Processes, "processes", cfg.Processes, "worker processes, int or auto")
	f.BoolVar(&cfg.Master, "master", false, "enable master supervisor")
	f.BoolVar(&cfg.Lazy, "lazy", false, "load app in worker, not master")

	f.IntVar(&cfg.BufferSize, "buffer-size", cfg.BufferSize, "per-connection parse buffer, bytes (>=4096)")
	f.Int64Var(&cfg.PostBuffering, "post-buffering", cfg.PostBuffering, "request-body RAM/disk threshold, bytes")

	f.DurationVar(&cfg.SocketTimeout, "socket-timeout", cfg.SocketTimeout, "idle connection close, seconds")
	f.IntVar(&cfg.Listen, "listen", cfg.Listen, "listen() backlog")
	f.BoolVar(&cfg.TCPNoDelay, "tcp-nodelay", false, "set TCP_NODELAY")
	f.BoolVar(&cfg.SoKeepAlive, "so-keepalive", false, "set SO_KEEPALIVE")
	f.IntVar(&cfg.SocketSndBuf, "socket-sndbuf", 0, "socket OS send buffer, bytes")
	f.IntVar(&cfg.SocketRcvBuf, "socket-rcvbuf", 0, "socket OS receive buffer, bytes")
	f.BoolVar(&cfg.ReusePort, "reuse-port", false, "Linux SO_REUSEPORT per worker")

	f.Int64Var(&cfg.WebSocketMaxSize, "websocket-max-size", 0, "WS message limit, KiB")

	f.StringVar(&cfg.ChownSocket, "chown-socket", "", "chown local sockets, uid:gid")
	f.StringVar(&cfg.Uid, "uid", "", "privilege drop uid")
	f.StringVar(&cfg.Gid, "gid", "", "privilege drop gid")
	f.StringVar(&cfg.Umask, "umask", "", "privilege drop umask")

	f.StringVar(&cfg.PidFile, "pidfile", "", "pre-drop pid file path")
	f.StringVar(&cfg.PidFile2, "pidfile2", "", "post-drop pid file path")

	f.StringArrayVar(&cfg.IniFiles, "ini", nil, "merge an ini config file, may repeat")
	f.StringArrayVar(&cfg.JSONFiles, "json", nil, "merge a json config file, may repeat")

	f.StringVar(&cfg.Stop, "stop", "", "send INT to the pid found in the given pidfile, then exit")

	f.StringVar(&cfg.MonitorSocket, "monitor-socket", "", "bind the /health+/metrics listener ([addr]:port), empty disables it")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "panic|fatal|error|warn|info|debug|nil")

	return cmd
}

// SocketTimeoutSeconds is a convenience accessor matching spec.md §6's
// "seconds" unit for --socket-timeout, independent of how the flag's
// time.Duration value was spelled on the command line.
func SocketTimeoutSeconds(cfg *Config) float64 {
	return cfg.SocketTimeout.Seconds()
}
