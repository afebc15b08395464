package http1

import (
	"fmt"

	"github.com/nabbar/gowsgi/protocol/websocket"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// sink is the request.ResponseSink bound to exactly one in-flight
// request on an HTTP/1.1 connection.
type sink struct {
	stream       transport.Stream
	st           *State
	wroteHeaders bool
	finished     bool
	dateFn       func() string
}

func newSink(stream transport.Stream, st *State, dateFn func() string) *sink {
	return &sink{stream: stream, st: st, dateFn: dateFn}
}

func (s *sink) WriteHeaders(status int, h request.Header) error {
	if s.wroteHeaders {
		return request.ErrorHeadersAlreadySent.Error()
	}
	s.wroteHeaders = true

	conn := "keep-alive"
	if s.st.wantsClose || s.st.req.Header.Get("CONNECTION") == "close" {
		conn = "close"
		s.st.wantsClose = true
	}

	buf := make([]byte, 0, 256)
	buf = append(buf, fmt.Sprintf("HTTP/1.1 %d %s\r\n", status, statusText(status))...)

	hasDate := h.Has("DATE")
	hasConn := h.Has("CONNECTION")

	h.Walk(func(key, value string) bool {
		buf = append(buf, request.DisplayKey(key)...)
		buf = append(buf, ':', ' ')
		buf = append(buf, value...)
		buf = append(buf, '\r', '\n')
		return true
	})

	if !hasDate {
		buf = append(buf, "Date: "+s.dateFn()+"\r\n"...)
	}
	if !hasConn {
		buf = append(buf, "Connection: "+conn+"\r\n"...)
	}
	buf = append(buf, '\r', '\n')

	_, err := s.stream.Write(buf)
	return err
}

func (s *sink) Write(b []byte) (int, error) {
	if !s.wroteHeaders {
		return 0, request.ErrorHeadersNotSent.Error()
	}
	return s.stream.Write(b)
}

func (s *sink) Finish() error {
	s.finished = true
	return nil
}

// SendText/SendBinary/SendPing are only valid once WebsocketHandshake
// has swapped this connection's protocol; this sink is reused across
// that swap (same stream, same connection) rather than replaced, so the
// handler can keep holding the one ResponseSink it received at
// ProcessRequest time for the WebSocket connection's whole lifetime.
func (s *sink) SendText(b []byte) error {
	if s.st.upgradeTo != upgradeWebSocket {
		return request.ErrorNotWebsocket.Error()
	}
	return websocket.WriteTextFrame(s.stream, b)
}

func (s *sink) SendBinary(b []byte) error {
	if s.st.upgradeTo != upgradeWebSocket {
		return request.ErrorNotWebsocket.Error()
	}
	return websocket.WriteBinaryFrame(s.stream, b)
}

func (s *sink) SendPing(b []byte) error {
	if s.st.upgradeTo != upgradeWebSocket {
		return request.ErrorNotWebsocket.Error()
	}
	return websocket.WritePingFrame(s.stream, b)
}

func (s *sink) Close(code int, reason string) error {
	if s.st.upgradeTo == upgradeWebSocket {
		_ = websocket.WriteCloseFrame(s.stream, code, reason)
	}
	return s.stream.Close()
}

// WebsocketHandshake synthesizes the 101 response computed from key and
// marks this connection for upgrade; the actual Protocol swap (installing
// protocol/websocket's ProtoState) is applied by the owning Socket once
// Parse returns protocol.OutcomeUpgrade, per spec.md §4.3.
func (s *sink) WebsocketHandshake(key, origin, subprotocol string) error {
	accept := computeAccept(key)

	buf := []byte("HTTP/1.1 101 Switching Protocols\r\n")
	buf = append(buf, "Upgrade: websocket\r\n"...)
	buf = append(buf, "Connection: Upgrade\r\n"...)
	buf = append(buf, "Sec-WebSocket-Accept: "+accept+"\r\n"...)
	if subprotocol != "" {
		buf = append(buf, "Sec-WebSocket-Protocol: "+subprotocol+"\r\n"...)
	}
	buf = append(buf, "Date: "+s.dateFn()+"\r\n\r\n"...)

	if _, err := s.stream.Write(buf); err != nil {
		return err
	}
	s.st.upgradeTo = upgradeWebSocket
	return nil
}
