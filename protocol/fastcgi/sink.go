package fastcgi

import (
	"fmt"

	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// maxStdoutChunk is the largest content-length a single STDOUT record
// carries; FastCGI's length field is 16 bits.
const maxStdoutChunk = 0xfff8 // leaves room to pad to a multiple of 8

type sink struct {
	stream       transport.Stream
	st           *State
	id           uint16
	wroteHeaders bool
	finished     bool
}

func newSink(stream transport.Stream, st *State) *sink {
	return &sink{stream: stream, st: st, id: st.id}
}

// WriteHeaders renders the response as a CGI-style header block (status
// line plus "Key: value" headers, a blank line, then body), the
// convention every FastCGI Responder application follows rather than an
// HTTP/1.1 status line.
func (s *sink) WriteHeaders(status int, h request.Header) error {
	if s.wroteHeaders {
		return request.ErrorHeadersAlreadySent.Error()
	}
	s.wroteHeaders = true

	buf := []byte(fmt.Sprintf("Status: %d\r\n", status))
	h.Walk(func(key, value string) bool {
		buf = append(buf, request.DisplayKey(key)+": "+value+"\r\n"...)
		return true
	})
	buf = append(buf, "\r\n"...)
	return s.writeStdout(buf)
}

func (s *sink) Write(b []byte) (int, error) {
	if !s.wroteHeaders {
		return 0, request.ErrorHeadersNotSent.Error()
	}
	if err := s.writeStdout(b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (s *sink) writeStdout(b []byte) error {
	for len(b) > 0 {
		n := len(b)
		if n > maxStdoutChunk {
			n = maxStdoutChunk
		}
		chunk := b[:n]
		pad := paddingFor(len(chunk))

		var out []byte
		out = appendRecordHeader(out, typeStdout, s.id, uint16(len(chunk)), pad)
		out = append(out, chunk...)
		out = append(out, make([]byte, pad)...)
		if _, err := s.stream.Write(out); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func (s *sink) Finish() error {
	if s.finished {
		return nil
	}
	s.finished = true

	// empty STDOUT record signals end of the output stream before the
	// final END_REQUEST accounting record.
	var empty []byte
	empty = appendRecordHeader(empty, typeStdout, s.id, 0, 0)
	if _, err := s.stream.Write(empty); err != nil {
		return err
	}
	writeEndRequest(s.stream, s.id, 0, statusRequestComplete)
	return nil
}

func (s *sink) SendText(_ []byte) error   { return request.ErrorNotWebsocket.Error() }
func (s *sink) SendBinary(_ []byte) error { return request.ErrorNotWebsocket.Error() }
func (s *sink) SendPing(_ []byte) error   { return request.ErrorNotWebsocket.Error() }

func (s *sink) Close(_ int, _ string) error {
	writeEndRequest(s.stream, s.id, 1, statusRequestComplete)
	return s.stream.Close()
}

func (s *sink) WebsocketHandshake(_, _, _ string) error {
	return request.ErrorNotWebsocket.Error()
}
