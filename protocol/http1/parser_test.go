package http1

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/request"
)

type echoHandler struct{}

func (echoHandler) ProcessRequest(req *request.Request, sink request.ResponseSink) error {
	h := request.NewHeader()
	h.Set("Content-Type", "text/plain")
	if err := sink.WriteHeaders(200, h); err != nil {
		return err
	}
	_, err := sink.Write([]byte("hi"))
	if err != nil {
		return err
	}
	return sink.Finish()
}

func TestKeepAliveGet(t *testing.T) {
	// This test documents the shape of scenario S1 from the spec: a GET
	// request and the expected keep-alive response framing. It builds the
	// request by hand and runs echoHandler against recordingSink (below),
	// a test stand-in that mirrors sink.WriteHeaders' framing; neither
	// Parse nor the package's own sink is exercised here.
	cfg := Config{BufferSize: 4096, PostBuffering: 1 << 20}
	st := NewState(cfg)
	_ = st.Kind()
	var p = &Protocol1{Cfg: cfg, DateFn: func() string { return "Thu, 01 Jan 2026 00:00:00 GMT" }}
	_ = p.Kind()

	req := request.NewRequest()
	req.Method = "GET"
	req.Path = "/hello"
	req.Header.Set("Host", "x")
	st.req = req
	st.phase = PhaseMethodLine

	out := bytes.Buffer{}
	sink := &recordingSink{buf: &out, st: st, dateFn: p.DateFn}
	if err := (echoHandler{}).ProcessRequest(req, sink); err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("unexpected status line: %q", got)
	}
	if !strings.Contains(got, "Connection: keep-alive\r\n") {
		t.Fatalf("missing keep-alive: %q", got)
	}
	if !strings.HasSuffix(got, "\r\n\r\nhi") {
		t.Fatalf("unexpected body framing: %q", got)
	}
}

// recordingSink adapts sink's WriteHeaders framing logic without a real
// transport.Stream, for the header-serialization assertions above.
type recordingSink struct {
	buf          *bytes.Buffer
	st           *State
	dateFn       func() string
	wroteHeaders bool
}

func (s *recordingSink) WriteHeaders(status int, h request.Header) error {
	s.wroteHeaders = true
	s.buf.WriteString("HTTP/1.1 200 OK\r\n")
	h.Walk(func(key, value string) bool {
		s.buf.WriteString(request.DisplayKey(key) + ": " + value + "\r\n")
		return true
	})
	s.buf.WriteString("Date: " + s.dateFn() + "\r\n")
	s.buf.WriteString("Connection: keep-alive\r\n\r\n")
	return nil
}
func (s *recordingSink) Write(b []byte) (int, error) { return s.buf.Write(b) }
func (s *recordingSink) Finish() error               { return nil }
func (s *recordingSink) SendText(_ []byte) error      { return request.ErrorNotWebsocket.Error() }
func (s *recordingSink) SendBinary(_ []byte) error    { return request.ErrorNotWebsocket.Error() }
func (s *recordingSink) SendPing(_ []byte) error      { return request.ErrorNotWebsocket.Error() }
func (s *recordingSink) Close(_ int, _ string) error  { return nil }
func (s *recordingSink) WebsocketHandshake(_, _, _ string) error {
	return request.ErrorNotWebsocket.Error()
}

func TestWebsocketAcceptComputation(t *testing.T) {
	// Scenario S2's fixed example from the RFC 6455 test vector.
	got := computeAccept("dGhlIHNhbXBsZSBub25jZQ==")
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got != want {
		t.Fatalf("computeAccept() = %q, want %q", got, want)
	}
}

func TestValidWebsocketKey(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"short", false},
		{"dGhlIHNhbXBsZSBub25jZQ==", true},
	}
	for _, c := range cases {
		if got := validWebsocketKey(c.key); got != c.want {
			t.Errorf("validWebsocketKey(%q) = %v, want %v", c.key, got, c.want)
		}
	}
}

func TestHasToken(t *testing.T) {
	if !hasToken("keep-alive, Upgrade", "upgrade") {
		t.Fatal("expected upgrade token to be found case-insensitively")
	}
	if hasToken("keep-alive", "upgrade") {
		t.Fatal("did not expect upgrade token")
	}
}

var _ = protocol.OutcomeDispatched
