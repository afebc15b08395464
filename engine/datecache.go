package engine

import "time"

// dateCache formats the HTTP Date header once and reuses it for up to one
// second, per spec's "engine is single-threaded, no locks required" rule:
// it is only ever touched from the owning Engine's loop goroutine.
type dateCache struct {
	value   string
	expires time.Time
}

func (d *dateCache) Get(now time.Time) string {
	if d.value == "" || !now.Before(d.expires) {
		d.value = now.UTC().Format(http1DateFormat)
		d.expires = now.Add(time.Second)
	}
	return d.value
}

// http1DateFormat matches RFC 7231's IMF-fixdate, the only form HTTP/1.1
// servers are required to generate.
const http1DateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
