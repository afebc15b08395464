// Package config implements spec.md §6's CLI surface: a cobra.Command
// + pflag.FlagSet that maps 1:1 to the flag table, a thin spf13/viper
// merge pass for the --ini/--json flags, and the parsing helpers that
// turn raw flag strings ("[addr]:port,cert,key[,alg]", "uid:gid",
// "auto") into the typed values the rest of the server consumes.
package config

import (
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config is the flag-to-struct target spec.md §6 describes. Every field
// here corresponds to exactly one CLI flag (or one repeatable flag for
// the slice fields); mapstructure tags let the --ini/--json merge pass
// (config/merge.go) land on the same fields cobra's pflag binding uses.
type Config struct {
	HTTPSockets    []string `mapstructure:"http-socket"`
	HTTPSSockets   []string `mapstructure:"https-socket"`
	HTTP2Sockets   []string `mapstructure:"http2-socket"`
	FastCGISockets []string `mapstructure:"fastcgi-socket"`

	UpgradeH2C bool `mapstructure:"upgrade-h2c"`
	HTTPSH2    bool `mapstructure:"https-h2"`

	Threads   string `mapstructure:"threads"`   // int or "auto"
	Processes string `mapstructure:"processes"` // int or "auto"
	Master    bool   `mapstructure:"master"`
	Lazy      bool   `mapstructure:"lazy"`

	BufferSize    int   `mapstructure:"buffer-size"`
	PostBuffering int64 `mapstructure:"post-buffering"`

	SocketTimeout time.Duration `mapstructure:"socket-timeout"`
	Listen        int           `mapstructure:"listen"`
	TCPNoDelay    bool          `mapstructure:"tcp-nodelay"`
	SoKeepAlive   bool          `mapstructure:"so-keepalive"`
	SocketSndBuf  int           `mapstructure:"socket-sndbuf"`
	SocketRcvBuf  int           `mapstructure:"socket-rcvbuf"`
	ReusePort     bool          `mapstructure:"reuse-port"`

	WebSocketMaxSize int64 `mapstructure:"websocket-max-size"`

	ChownSocket string `mapstructure:"chown-socket"`
	Uid         string `mapstructure:"uid"`
	Gid         string `mapstructure:"gid"`
	Umask       string `mapstructure:"umask"`

	PidFile  string `mapstructure:"pidfile"`
	PidFile2 string `mapstructure:"pidfile2"`

	IniFiles  []string `mapstructure:"ini"`
	JSONFiles []string `mapstructure:"json"`

	Stop string `mapstructure:"stop"`

	// MonitorSocket is "[addr]:port" for the /health+/metrics listener;
	// empty disables it. Not part of spec.md's flag table, carried per
	// the ambient observability stack every worker already exposes.
	MonitorSocket string `mapstructure:"monitor-socket"`
	LogLevel      string `mapstructure:"log-level"`
}

// Default returns a Config carrying spec.md §6's stated defaults.
func Default() *Config {
	return &Config{
		BufferSize:    4096,
		SocketTimeout: 4 * time.Second,
		Listen:        128,
		Threads:       "1",
		Processes:     "1",
		LogLevel:      "info",
	}
}

// ResolveCount parses an int-or-"auto" flag value, "auto" resolving to
// runtime.NumCPU() (spec.md §6's `--threads`/`--processes`).
func ResolveCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	if strings.EqualFold(s, "auto") {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrorInvalidFlag.Error(err)
	}
	if n <= 0 {
		n = 1
	}
	return n, nil
}

// SocketSpec is one parsed `--http-socket`/`--https-socket`/
// `--http2-socket`/`--fastcgi-socket` entry.
type SocketSpec struct {
	Address string
	Cert    string
	Key     string
	Alg     string // optional TLS cipher/curve hint, only meaningful with Cert/Key
}

// ParseSocketSpec splits "[addr]:port" or "/path" (plain) and
// "[addr]:port,cert,key[,alg]" (TLS) forms per spec.md §6's flag table.
func ParseSocketSpec(raw string) (SocketSpec, error) {
	parts := strings.Split(raw, ",")
	if len(parts) == 0 || parts[0] == "" {
		return SocketSpec{}, ErrorInvalidSocketSpec.Error()
	}

	spec := SocketSpec{Address: parts[0]}
	switch len(parts) {
	case 1:
	case 3:
		spec.Cert, spec.Key = parts[1], parts[2]
	case 4:
		spec.Cert, spec.Key, spec.Alg = parts[1], parts[2], parts[3]
	default:
		return SocketSpec{}, ErrorInvalidSocketSpec.Error()
	}
	return spec, nil
}

// ParseChownSpec splits a "uid:gid" --chown-socket value; either side
// may be empty, reported as -1.
func ParseChownSpec(raw string) (uid, gid int, err error) {
	if raw == "" {
		return -1, -1, nil
	}
	parts := strings.SplitN(raw, ":", 2)
	uid, err = parseIDOrDefault(parts[0])
	if err != nil {
		return 0, 0, ErrorInvalidChownSpec.Error(err)
	}
	if len(parts) == 1 || parts[1] == "" {
		return uid, -1, nil
	}
	gid, err = parseIDOrDefault(parts[1])
	if err != nil {
		return 0, 0, ErrorInvalidChownSpec.Error(err)
	}
	return uid, gid, nil
}

func parseIDOrDefault(s string) (int, error) {
	if s == "" {
		return -1, nil
	}
	return strconv.Atoi(s)
}
