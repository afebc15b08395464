package socket

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/protocol/http1"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

type fakeStream struct {
	in  *bytes.Reader
	out bytes.Buffer
}

// Read simulates a non-blocking socket that has delivered everything the
// peer has sent so far: once the canned bytes are exhausted it reports
// ErrWouldBlock rather than io.EOF, since in this test's scenarios the
// peer has not actually closed its write side, it simply hasn't sent
// anything further yet. This matters across a protocol upgrade, where
// Socket re-enters Parse on the new protocol before any further readable
// event, and that Parse call's own read must not be mistaken for a
// closed connection.
func (f *fakeStream) Read(b []byte) (int, error) {
	n, err := f.in.Read(b)
	if n == 0 {
		return 0, transport.ErrWouldBlock
	}
	return n, err
}
func (f *fakeStream) Write(b []byte) (int, error)              { return f.out.Write(b) }
func (f *fakeStream) Close() error                              { return nil }
func (f *fakeStream) FD() int                                   { return -1 }
func (f *fakeStream) Kind() transport.Kind                      { return transport.KindTCP }
func (f *fakeStream) PeerAddr() net.Addr                        { return nil }
func (f *fakeStream) LocalAddr() net.Addr                       { return nil }
func (f *fakeStream) IsTLSNegotiated() bool                     { return false }
func (f *fakeStream) SetOption(_ transport.Option, _ int) error { return nil }
func (f *fakeStream) SetDeadline(_ time.Time) error             { return nil }

// upgradeHandler accepts any request carrying a WebSocket key and upgrades
// it; it records every reassembled text message delivered after that.
type upgradeHandler struct {
	texts []string
}

func (h *upgradeHandler) ProcessRequest(req *request.Request, sink request.ResponseSink) error {
	if key := req.Header.Get("Sec-WebSocket-Key"); key != "" {
		return sink.WebsocketHandshake(key, "", "")
	}
	if err := sink.WriteHeaders(200, request.NewHeader()); err != nil {
		return err
	}
	return sink.Finish()
}
func (h *upgradeHandler) TextFrame(_ *request.Request, _ []byte, _ bool)   {}
func (h *upgradeHandler) BinaryFrame(_ *request.Request, _ []byte, _ bool) {}
func (h *upgradeHandler) TextMessage(_ *request.Request, text string) {
	h.texts = append(h.texts, text)
}
func (h *upgradeHandler) BinaryMessage(_ *request.Request, _ []byte) {}
func (h *upgradeHandler) Ping(_ *request.Request, _ []byte)          {}
func (h *upgradeHandler) Pong(_ *request.Request, _ []byte)          {}
func (h *upgradeHandler) Closed(_ *request.Request, _ int, _ string) {}

func maskedTextFrame(key [4]byte, payload []byte) []byte {
	masked := append([]byte(nil), payload...)
	for i := range masked {
		masked[i] ^= key[i%4]
	}
	buf := []byte{0x80 | 0x1, 0x80 | byte(len(payload))}
	buf = append(buf, key[:]...)
	buf = append(buf, masked...)
	return buf
}

// TestWebsocketUpgradeSwapsProtocolAndCarriesLeftoverBytes exercises
// scenario S2: an HTTP/1.1 upgrade request arrives together, in the same
// read, with the first WebSocket frame the client sends immediately after
// (no round trip wait for the 101 response). Process must swap the
// Socket's Protocol/ProtoState in place and hand the already-buffered
// frame bytes to the new protocol without waiting for another readable
// event.
func TestWebsocketUpgradeSwapsProtocolAndCarriesLeftoverBytes(t *testing.T) {
	req := "GET /chat HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
		"Sec-WebSocket-Version: 13\r\n\r\n"

	key := [4]byte{0x11, 0x22, 0x33, 0x44}
	frame := maskedTextFrame(key, []byte("hi"))

	wire := append([]byte(req), frame...)
	stream := &fakeStream{in: bytes.NewReader(wire)}

	proto := &http1.Protocol1{
		Cfg:    http1.Config{BufferSize: 4096, PostBuffering: 1 << 20},
		DateFn: func() string { return "Thu, 01 Jan 2026 00:00:00 GMT" },
	}
	sock := New(stream, proto, Config{BufferSize: 4096, WebSocketMaxSize: 4096})

	h := &upgradeHandler{}
	keepOpen, err := sock.Process(h)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !keepOpen {
		t.Fatal("Process() closed the connection, want it kept open")
	}
	if sock.Kind() != protocol.KindWebSocket {
		t.Fatalf("Kind() = %v, want KindWebSocket", sock.Kind())
	}
	if len(h.texts) != 1 || h.texts[0] != "hi" {
		t.Fatalf("texts = %v, want [hi]; leftover frame bytes were not carried over the upgrade", h.texts)
	}

	written := stream.out.Bytes()
	if !bytes.Contains(written, []byte("101 Switching Protocols")) {
		t.Fatalf("missing 101 response: %q", written)
	}
}

func TestInFlightZeroAfterSynchronousDispatch(t *testing.T) {
	req := "GET /ping HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"
	stream := &fakeStream{in: bytes.NewReader([]byte(req))}

	proto := &http1.Protocol1{
		Cfg:    http1.Config{BufferSize: 4096, PostBuffering: 1 << 20},
		DateFn: func() string { return "Thu, 01 Jan 2026 00:00:00 GMT" },
	}
	sock := New(stream, proto, Config{BufferSize: 4096})

	h := &upgradeHandler{}
	keepOpen, err := sock.Process(h)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if keepOpen {
		t.Fatal("Process() kept the connection open, want close (Connection: close)")
	}
	if got := sock.InFlight(); got != 0 {
		t.Fatalf("InFlight() = %d, want 0 once ProcessRequest has returned", got)
	}
}
