package fork

import (
	"github.com/fsnotify/fsnotify"

	"github.com/nabbar/gowsgi/engine"
)

// startTouchReload watches cfg.TouchReload paths (spec.md §4.7: "on
// auto-restart or configured touch-reload, watch named paths and issue
// a graceful restart when any change is observed") and calls Restart
// through the engine's loop whenever fsnotify reports a write on one of
// them.
func (m *master) startTouchReload(eng engine.Engine) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrorTouchReload.Error(err)
	}

	for _, p := range m.cfg.TouchReload {
		if err = w.Add(p); err != nil {
			_ = w.Close()
			return ErrorTouchReload.Error(err)
		}
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					eng.Post(m.Restart)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if l := m.log(); l != nil && err != nil {
					l.Warning("fork: touch-reload watch error", nil, "error", err)
				}
			}
		}
	}()

	return nil
}
