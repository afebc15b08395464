package monitor

import (
	"encoding/json"
	"net/http"
	"time"
)

// Status is a snapshot of server health, rendered as JSON by the
// /health route (spec.md's ambient monitoring surface; not itself a
// spec.md-named module, but every ambient concern the teacher carries
// is carried here regardless of Non-goals).
type Status struct {
	Running bool          `json:"running"`
	Workers int           `json:"workers"`
	Uptime  time.Duration `json:"uptime_ns"`
}

// StatusFunc produces the current Status on demand, analogous to the
// teacher's montps.Info health-check callback but collapsed to the one
// snapshot this server's /health route needs.
type StatusFunc func() Status

func healthHandler(status StatusFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := status()
		w.Header().Set("Content-Type", "application/json")
		if !s.Running {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(s)
	})
}
