package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// HookStdOut is a logrus.Hook writing every matching entry to an
// io.Writer (os.Stdout by default), formatted with the Logger's own
// formatter. It is the trimmed-down equivalent of the teacher's
// hookstdout package: no color/stack/trace field filtering, since this
// server's entries are already structured through Fields.
type HookStdOut struct {
	w      io.Writer
	levels []logrus.Level
	fmt    logrus.Formatter
}

// NewHookStdOut builds a HookStdOut writing to w (os.Stdout if nil) for
// the given levels (logrus.AllLevels if empty), formatted with f (the
// default text formatter if nil).
func NewHookStdOut(w io.Writer, levels []logrus.Level, f logrus.Formatter) *HookStdOut {
	if w == nil {
		w = os.Stdout
	}
	if len(levels) == 0 {
		levels = logrus.AllLevels
	}
	if f == nil {
		f = defaultFormatter()
	}
	return &HookStdOut{w: w, levels: levels, fmt: f}
}

func (h *HookStdOut) Levels() []logrus.Level {
	return h.levels
}

func (h *HookStdOut) Fire(e *logrus.Entry) error {
	b, err := h.fmt.Format(e)
	if err != nil {
		return err
	}
	_, err = h.w.Write(b)
	return err
}
