package http1

import (
	"crypto/sha1"
	"encoding/base64"

	"github.com/nabbar/gowsgi/request"
)

const websocketMagic = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// computeAccept implements Sec-WebSocket-Accept per spec.md §4.3:
// base64(SHA1(key || magic)).
func computeAccept(key string) string {
	h := sha1.New()
	h.Write([]byte(key))
	h.Write([]byte(websocketMagic))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// isWebsocketUpgradeRequest reports whether req carries the headers that
// make websocket_handshake meaningful for it; the application handler
// still decides whether to actually call it.
func isWebsocketUpgradeRequest(req *request.Request) bool {
	return req.Header.Get("UPGRADE") == "websocket" &&
		hasToken(req.Header.Get("CONNECTION"), "upgrade") &&
		validWebsocketKey(req.Header.Get("SEC_WEBSOCKET_KEY"))
}

// validWebsocketKey applies the Open Question resolution from
// spec.md §9: require presence and length >= 16, reject empty, accept
// all other keys (the source's inverted "== 36" check is not
// reproduced).
func validWebsocketKey(key string) bool {
	return len(key) >= 16
}

// isH2CUpgradeRequest reports whether req is a clear-text HTTP/2 upgrade
// per spec.md §4.3: Upgrade: h2c, Connection: Upgrade, HTTP2-Settings
// present and non-empty.
func isH2CUpgradeRequest(req *request.Request, allow bool) bool {
	if !allow {
		return false
	}
	return req.Header.Get("UPGRADE") == "h2c" &&
		hasToken(req.Header.Get("CONNECTION"), "upgrade") &&
		req.Header.Get("HTTP2_SETTINGS") != ""
}

// hasToken reports whether comma-separated list contains token,
// case-insensitively, ignoring surrounding whitespace.
func hasToken(list, token string) bool {
	start := 0
	for i := 0; i <= len(list); i++ {
		if i == len(list) || list[i] == ',' {
			part := trimSpace(list[start:i])
			if equalFold(part, token) {
				return true
			}
			start = i + 1
		}
	}
	return false
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// writeH2CSwitchingProtocols writes the 101 response for an h2c upgrade.
func writeH2CSwitchingProtocols(stream interface {
	Write([]byte) (int, error)
}, dateFn func() string) error {
	buf := []byte("HTTP/1.1 101 Switching Protocols\r\n")
	buf = append(buf, "Connection: Upgrade\r\n"...)
	buf = append(buf, "Upgrade: h2c\r\n"...)
	buf = append(buf, "Date: "+dateFn()+"\r\n\r\n"...)
	_, err := stream.Write(buf)
	return err
}
