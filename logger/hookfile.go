package logger

import (
	"os"
	"sync"

	"github.com/nabbar/gowsgi/errors"
	"github.com/sirupsen/logrus"
)

// HookFile is a logrus.Hook appending every matching entry to a file,
// reopening it lazily on first Fire. It is the trimmed-down equivalent
// of the teacher's hookfile package: a single destination file, no
// rotation, no buffered aggregation - this server expects an external
// log rotator (logrotate, journald) the way the teacher's own simplest
// deployments do.
type HookFile struct {
	path   string
	levels []logrus.Level
	fmt    logrus.Formatter

	mu sync.Mutex
	fh *os.File
}

// NewHookFile builds a HookFile appending to path for the given levels
// (logrus.AllLevels if empty), formatted with f (the default text
// formatter if nil). The file is opened on first Fire, not here.
func NewHookFile(path string, levels []logrus.Level, f logrus.Formatter) *HookFile {
	if len(levels) == 0 {
		levels = logrus.AllLevels
	}
	if f == nil {
		f = defaultFormatter()
	}
	return &HookFile{path: path, levels: levels, fmt: f}
}

func (h *HookFile) Levels() []logrus.Level {
	return h.levels
}

func (h *HookFile) Fire(e *logrus.Entry) error {
	b, err := h.fmt.Format(e)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.fh == nil {
		fh, oerr := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if oerr != nil {
			return ErrorHookFileOpen.Error(oerr)
		}
		h.fh = fh
	}

	_, err = h.fh.Write(b)
	return err
}

func (h *HookFile) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.fh == nil {
		return nil
	}
	err := h.fh.Close()
	h.fh = nil
	return err
}
