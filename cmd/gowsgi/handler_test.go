package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nabbar/gowsgi/request"
)

// fakeSink is a minimal request.ResponseSink recording just enough to
// assert on echoHandler's output; the WebSocket verbs are never called
// by ProcessRequest so they just need to satisfy the interface.
type fakeSink struct {
	status int
	header request.Header
	body   bytes.Buffer
	closed bool
}

func (s *fakeSink) WriteHeaders(status int, header request.Header) error {
	s.status, s.header = status, header
	return nil
}
func (s *fakeSink) Write(b []byte) (int, error)             { return s.body.Write(b) }
func (s *fakeSink) Finish() error                           { s.closed = true; return nil }
func (s *fakeSink) SendText(_ []byte) error                 { return nil }
func (s *fakeSink) SendBinary(_ []byte) error               { return nil }
func (s *fakeSink) SendPing(_ []byte) error                 { return nil }
func (s *fakeSink) Close(_ int, _ string) error              { return nil }
func (s *fakeSink) WebsocketHandshake(_, _, _ string) error  { return nil }

func TestEchoHandlerProcessRequest(t *testing.T) {
	h := newEchoHandler(nil)
	req := &request.Request{
		Method:     "GET",
		Path:       "/hello",
		Proto:      "HTTP/1.1",
		RemoteAddr: "127.0.0.1",
		RemotePort: 54321,
	}
	sink := &fakeSink{}

	if err := h.ProcessRequest(req, sink); err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}
	if sink.status != 200 {
		t.Errorf("status = %d, want 200", sink.status)
	}
	if !sink.closed {
		t.Error("Finish was never called")
	}
	if got := sink.body.String(); !strings.Contains(got, "GET /hello HTTP/1.1") {
		t.Errorf("body = %q, want it to contain the request line", got)
	}
	if got := sink.header.Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestEchoHandlerHooksDoNotPanicWithoutLogger(t *testing.T) {
	h := newEchoHandler(nil)
	h.PostForkInit(3)
	h.ShuttingDown()
	h.TextMessage(&request.Request{}, "hi")
}
