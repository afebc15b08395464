package logger

import (
	"context"
	"io"
	"log"

	libctx "github.com/nabbar/gowsgi/context"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/sirupsen/logrus"
)

const (
	keyLevel uint8 = iota
	keyFields
)

// lgr is the concrete Logger: a logrus.Logger plus a small libctx.Registry
// slot-map for the two bits of mutable state (current level, current
// base fields) that need to survive concurrent SetLevel/SetFields calls
// from multiple goroutines without a dedicated mutex.
type lgr struct {
	x libctx.Registry[uint8]
	l *logrus.Logger
}

func newLogger(ctx context.Context) Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.TraceLevel)
	l.SetFormatter(defaultFormatter())

	g := &lgr{
		x: libctx.New[uint8](ctx),
		l: l,
	}
	g.SetLevel(InfoLevel)
	g.SetFields(NewFields())

	return g
}

func defaultFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}

func (g *lgr) SetLevel(lvl Level) {
	g.x.Store(keyLevel, lvl)
}

func (g *lgr) GetLevel() Level {
	v, ok := g.x.Load(keyLevel)
	if !ok {
		return InfoLevel
	}
	lvl, ok := v.(Level)
	if !ok {
		return InfoLevel
	}
	return lvl
}

func (g *lgr) SetFields(f Fields) {
	g.x.Store(keyFields, f)
}

func (g *lgr) GetFields() Fields {
	v, ok := g.x.Load(keyFields)
	if !ok {
		return NewFields()
	}
	f, ok := v.(Fields)
	if !ok {
		return NewFields()
	}
	return f
}

// AddHook registers a logrus.Hook (HookStdOut, HookFile, ...) that will
// receive every entry this Logger emits from here on.
func (g *lgr) AddHook(h logrus.Hook) {
	g.l.AddHook(h)
}

func (g *lgr) entry(data interface{}, args ...interface{}) *logrus.Entry {
	f := g.GetFields()
	if data != nil {
		f = f.Add("data", data)
	}
	if len(args) > 0 {
		f = f.Add("args", args)
	}
	return g.l.WithFields(f.Logrus())
}

func (g *lgr) log(lvl Level, message string, data interface{}, args ...interface{}) {
	if cur := g.GetLevel(); cur == NilLevel || lvl > cur {
		return
	}
	e := g.entry(data, args...)
	switch lvl {
	case DebugLevel:
		e.Debug(message)
	case InfoLevel:
		e.Info(message)
	case WarnLevel:
		e.Warning(message)
	case ErrorLevel:
		e.Error(message)
	case FatalLevel:
		e.Fatal(message)
	case PanicLevel:
		e.Panic(message)
	}
}

func (g *lgr) Debug(message string, data interface{}, args ...interface{}) {
	g.log(DebugLevel, message, data, args...)
}

func (g *lgr) Info(message string, data interface{}, args ...interface{}) {
	g.log(InfoLevel, message, data, args...)
}

func (g *lgr) Warning(message string, data interface{}, args ...interface{}) {
	g.log(WarnLevel, message, data, args...)
}

func (g *lgr) Error(message string, data interface{}, args ...interface{}) {
	g.log(ErrorLevel, message, data, args...)
}

// Fatal logs at FatalLevel and terminates the process (logrus.Entry.Fatal
// calls os.Exit(1) once the entry has been written to every hook).
func (g *lgr) Fatal(message string, data interface{}, args ...interface{}) {
	g.entry(data, args...).Fatal(message)
}

// Panic logs at PanicLevel and panics (logrus.Entry.Panic re-raises after
// writing the entry).
func (g *lgr) Panic(message string, data interface{}, args ...interface{}) {
	g.entry(data, args...).Panic(message)
}

func (g *lgr) Write(p []byte) (int, error) {
	g.log(g.GetLevel(), string(p), nil)
	return len(p), nil
}

func (g *lgr) Close() error {
	if c, ok := g.l.Out.(io.Closer); ok {
		return c.Close()
	}
	for _, hooks := range g.l.Hooks {
		for _, h := range hooks {
			if c, ok := h.(io.Closer); ok {
				if err := c.Close(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *lgr) GetStdLogger(lvl Level, logFlags int) *log.Logger {
	return log.New(g.l.WriterLevel(lvl.Logrus()), "", logFlags)
}

// SetSPF13Level bridges jwalterweatherman, the logger cobra/viper use
// internally, onto this Logger: jww's global output is redirected through
// this Logger so Hugo/Cobra/Viper's own log chatter lands in the same
// stream. Pass a nil notepad to silence jww's stdout mirror entirely.
func (g *lgr) SetSPF13Level(lvl Level, notepad *jww.Notepad) {
	if notepad == nil {
		jww.SetStdoutOutput(io.Discard)
	} else {
		jww.SetStdoutOutput(g)
	}

	switch lvl {
	case NilLevel:
		jww.SetLogOutput(io.Discard)
		jww.SetLogThreshold(jww.LevelCritical)
	case DebugLevel:
		jww.SetLogOutput(g)
		jww.SetLogThreshold(jww.LevelTrace)
	case InfoLevel:
		jww.SetLogOutput(g)
		jww.SetLogThreshold(jww.LevelInfo)
	case WarnLevel:
		jww.SetLogOutput(g)
		jww.SetLogThreshold(jww.LevelWarn)
	case ErrorLevel:
		jww.SetLogOutput(g)
		jww.SetLogThreshold(jww.LevelError)
	case FatalLevel:
		jww.SetLogOutput(g)
		jww.SetLogThreshold(jww.LevelFatal)
	case PanicLevel:
		jww.SetLogOutput(g)
		jww.SetLogThreshold(jww.LevelCritical)
	}
}
