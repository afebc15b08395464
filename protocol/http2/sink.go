package http2

import (
	"strconv"

	"github.com/nabbar/gowsgi/protocol/http2/hpack"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// streamSink is the request.ResponseSink for one HTTP/2 stream. WebSocket
// methods are not meaningful over HTTP/2 in this server (upgrade only
// happens from HTTP/1.1) and return request.ErrorNotWebsocket.
type streamSink struct {
	st     *State
	stream transport.Stream
	s      *Stream
}

func newStreamSink(st *State, stream transport.Stream, s *Stream) *streamSink {
	return &streamSink{st: st, stream: stream, s: s}
}

func (sk *streamSink) WriteHeaders(status int, h request.Header) error {
	if sk.s.headersSent {
		return request.ErrorHeadersAlreadySent.Error()
	}
	sk.s.headersSent = true

	var block []byte
	block = sk.st.encoder.EncodeField(block, hpack.HeaderField{Name: ":status", Value: strconv.Itoa(status)}, false)
	h.Walk(func(key, value string) bool {
		block = sk.st.encoder.EncodeField(block, hpack.HeaderField{Name: lowerHeaderName(key), Value: value}, false)
		return true
	})

	return sk.writeHeaderBlock(block, false)
}

// writeHeaderBlock splits block across HEADERS + CONTINUATION frames if it
// exceeds the peer's advertised max frame size.
func (sk *streamSink) writeHeaderBlock(block []byte, endStream bool) error {
	maxSize := int(sk.st.remoteSettings.MaxFrameSize)
	first := block
	rest := []byte(nil)
	endHeaders := true
	if len(block) > maxSize {
		first = block[:maxSize]
		rest = block[maxSize:]
		endHeaders = false
	}

	flags := uint8(0)
	if endHeaders {
		flags |= FlagEndHeaders
	}
	if endStream {
		flags |= FlagEndStream
	}
	var buf []byte
	buf = appendFrameHeader(buf, uint32(len(first)), FrameHeaders, flags, sk.s.ID)
	buf = append(buf, first...)
	if _, err := sk.stream.Write(buf); err != nil {
		return err
	}

	for len(rest) > 0 {
		chunk := rest
		last := true
		if len(chunk) > maxSize {
			chunk = rest[:maxSize]
			last = false
		}
		cflags := uint8(0)
		if last {
			cflags |= FlagEndHeaders
		}
		var cbuf []byte
		cbuf = appendFrameHeader(cbuf, uint32(len(chunk)), FrameContinuation, cflags, sk.s.ID)
		cbuf = append(cbuf, chunk...)
		if _, err := sk.stream.Write(cbuf); err != nil {
			return err
		}
		rest = rest[len(chunk):]
	}
	return nil
}

func (sk *streamSink) Write(b []byte) (int, error) {
	if !sk.s.headersSent {
		return 0, request.ErrorHeadersNotSent.Error()
	}
	sk.s.pendingBody = append(sk.s.pendingBody, b...)
	sk.st.flushStream(sk.stream, sk.s)
	return len(b), nil
}

func (sk *streamSink) Finish() error {
	sk.s.pendingEnd = true
	sk.st.flushStream(sk.stream, sk.s)
	return nil
}

func (sk *streamSink) SendText(_ []byte) error   { return request.ErrorNotWebsocket.Error() }
func (sk *streamSink) SendBinary(_ []byte) error { return request.ErrorNotWebsocket.Error() }
func (sk *streamSink) SendPing(_ []byte) error   { return request.ErrorNotWebsocket.Error() }

func (sk *streamSink) Close(code int, _ string) error {
	sk.st.writeRSTStream(sk.stream, sk.s.ID, ErrorCode(code))
	sk.s.close()
	delete(sk.st.streams, sk.s.ID)
	return nil
}

func (sk *streamSink) WebsocketHandshake(_, _, _ string) error {
	return request.ErrorNotWebsocket.Error()
}

// flushStream drains as much of a stream's pending body as the smaller of
// the connection and stream send windows allows, emitting DATA frames.
// Bytes that do not fit stay buffered and a blockedWriter is parked so a
// later WINDOW_UPDATE resumes the flush (spec.md §5's cooperative-
// scheduling note: no stack-resumable coroutine is available here).
func (st *State) flushStream(stream transport.Stream, s *Stream) {
	for len(s.pendingBody) > 0 {
		avail := s.SendWindow.available()
		if connAvail := st.connSendWindow.available(); connAvail < avail {
			avail = connAvail
		}
		if avail <= 0 {
			s.park(func() { st.flushStream(stream, s) })
			return
		}

		n := len(s.pendingBody)
		maxFrame := int(st.remoteSettings.MaxFrameSize)
		if int64(n) > avail {
			n = int(avail)
		}
		if n > maxFrame {
			n = maxFrame
		}

		chunk := s.pendingBody[:n]
		last := n == len(s.pendingBody) && s.pendingEnd

		flags := uint8(0)
		if last {
			flags |= FlagEndStream
		}
		var buf []byte
		buf = appendFrameHeader(buf, uint32(len(chunk)), FrameData, flags, s.ID)
		buf = append(buf, chunk...)
		_, _ = stream.Write(buf)

		s.SendWindow.consume(len(chunk))
		st.connSendWindow.consume(len(chunk))
		s.pendingBody = s.pendingBody[n:]

		if last {
			s.close()
			delete(st.streams, s.ID)
			return
		}
	}
	if len(s.pendingBody) == 0 && s.pendingEnd && s.headersSent {
		// Finish() was called with an empty body: emit a bare, empty
		// END_STREAM DATA frame.
		var buf []byte
		buf = appendFrameHeader(buf, 0, FrameData, FlagEndStream, s.ID)
		_, _ = stream.Write(buf)
		s.close()
		delete(st.streams, s.ID)
	}
}

// lowerHeaderName converts this server's internal UPPER_SNAKE header key
// back to the all-lowercase form HTTP/2 requires on the wire.
func lowerHeaderName(key string) string {
	b := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '_' {
			c = '-'
		} else if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
