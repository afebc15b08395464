package websocket

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

type fakeStream struct {
	in  *bytes.Reader
	out bytes.Buffer
}

func (f *fakeStream) Read(b []byte) (int, error) {
	n, err := f.in.Read(b)
	if n == 0 && err == nil {
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

type recordingHandler struct {
	texts   []string
	binary  [][]byte
	pings   [][]byte
	pongs   [][]byte
	closed  bool
	code    int
	reason  string
}

func (h *recordingHandler) ProcessRequest(_ *request.Request, _ request.ResponseSink) error {
	return nil
}
func (h *recordingHandler) TextFrame(_ *request.Request, _ []byte, _ bool)   {}
func (h *recordingHandler) BinaryFrame(_ *request.Request, _ []byte, _ bool) {}
func (h *recordingHandler) TextMessage(_ *request.Request, text string) {
	h.texts = append(h.texts, text)
}
func (h *recordingHandler) BinaryMessage(_ *request.Request, data []byte) {
	h.binary = append(h.binary, data)
}
func (h *recordingHandler) Ping(_ *request.Request, data []byte) { h.pings = append(h.pings, data) }
func (h *recordingHandler) Pong(_ *request.Request, data []byte) { h.pongs = append(h.pongs, data) }
func (h *recordingHandler) Closed(_ *request.Request, code int, reason string) {
	h.closed = true
	h.code = code
	h.reason = reason
}

var testMaskKey = [4]byte{0x11, 0x22, 0x33, 0x44}

func clientFrame(op opcode, fin bool, payload []byte) []byte {
	b0 := byte(op)
	if fin {
		b0 |= 0x80
	}

	masked := append([]byte(nil), payload...)
	maskPayload(testMaskKey, masked)

	var buf []byte
	buf = append(buf, b0)

	n := len(payload)
	switch {
	case n < 126:
		buf = append(buf, 0x80|byte(n))
	case n <= 0xffff:
		buf = append(buf, 0x80|126, byte(n>>8), byte(n))
	default:
		panic("test helper does not support 64-bit lengths")
	}
	buf = append(buf, testMaskKey[:]...)
	buf = append(buf, masked...)
	return buf
}

func newTestProtocolAndState() (*Protocol, *State) {
	p := &Protocol{Cfg: Config{BufferSize: 4096, MaxMessageSize: 4096}}
	st := p.NewState(4096).(*State)
	st.AdoptHandshake(request.NewRequest())
	return p, st
}

func TestSingleFrameTextMessage(t *testing.T) {
	p, st := newTestProtocolAndState()
	h := &recordingHandler{}

	wire := clientFrame(opText, true, []byte("ping"))
	stream := &fakeStream{in: bytes.NewReader(wire)}

	out := p.Parse(st, stream, h)
	if out != protocol.OutcomeDispatched {
		t.Fatalf("Parse() = %v, want OutcomeDispatched", out)
	}
	if len(h.texts) != 1 || h.texts[0] != "ping" {
		t.Fatalf("texts = %v, want [ping]", h.texts)
	}
}

func TestFragmentedTextMessage(t *testing.T) {
	p, st := newTestProtocolAndState()
	h := &recordingHandler{}

	var wire []byte
	wire = append(wire, clientFrame(opText, false, []byte("hel"))...)
	wire = append(wire, clientFrame(opContinuation, true, []byte("lo"))...)
	stream := &fakeStream{in: bytes.NewReader(wire)}

	out := p.Parse(st, stream, h)
	if out != protocol.OutcomeDispatched {
		t.Fatalf("Parse() = %v, want OutcomeDispatched", out)
	}
	if len(h.texts) != 1 || h.texts[0] != "hello" {
		t.Fatalf("texts = %v, want [hello]", h.texts)
	}
}

func TestUnmaskedClientFrameClosesConnection(t *testing.T) {
	p, st := newTestProtocolAndState()
	h := &recordingHandler{}

	// Build an unmasked frame directly (bypassing the masking helper).
	wire := []byte{0x80 | byte(opText), 0x04, 'p', 'i', 'n', 'g'}
	stream := &fakeStream{in: bytes.NewReader(wire)}

	out := p.Parse(st, stream, h)
	if out != protocol.OutcomeCloseConn {
		t.Fatalf("Parse() = %v, want OutcomeCloseConn", out)
	}

	written := stream.out.Bytes()
	if len(written) < 2 || opcode(written[0]&0x0f) != opClose {
		t.Fatalf("expected a Close frame reply, got %x", written)
	}
}

func TestInvalidUTF8ClosesConnection(t *testing.T) {
	p, st := newTestProtocolAndState()
	h := &recordingHandler{}

	wire := clientFrame(opText, true, []byte{0xff, 0xfe})
	stream := &fakeStream{in: bytes.NewReader(wire)}

	out := p.Parse(st, stream, h)
	if out != protocol.OutcomeCloseConn {
		t.Fatalf("Parse() = %v, want OutcomeCloseConn", out)
	}
}

func TestPingGetsAutoPong(t *testing.T) {
	p, st := newTestProtocolAndState()
	h := &recordingHandler{}

	wire := clientFrame(opPing, true, []byte("hi"))
	stream := &fakeStream{in: bytes.NewReader(wire)}

	out := p.Parse(st, stream, h)
	if out != protocol.OutcomeDispatched {
		t.Fatalf("Parse() = %v, want OutcomeDispatched", out)
	}
	if len(h.pings) != 1 || string(h.pings[0]) != "hi" {
		t.Fatalf("pings = %v", h.pings)
	}

	written := stream.out.Bytes()
	hdr, consumed, err := parseFrameHeader(written)
	if err != nil {
		t.Fatalf("parseFrameHeader: %v", err)
	}
	if hdr.Opcode != opPong {
		t.Fatalf("opcode = %v, want Pong", hdr.Opcode)
	}
	if string(written[consumed:]) != "hi" {
		t.Fatalf("pong payload = %q, want %q", written[consumed:], "hi")
	}
}

func TestCloseFrameEchoedAndCallbackInvoked(t *testing.T) {
	p, st := newTestProtocolAndState()
	h := &recordingHandler{}

	payload := []byte{0x03, 0xe8} // 1000, no reason
	wire := clientFrame(opClose, true, payload)
	stream := &fakeStream{in: bytes.NewReader(wire)}

	out := p.Parse(st, stream, h)
	if out != protocol.OutcomeCloseConn {
		t.Fatalf("Parse() = %v, want OutcomeCloseConn", out)
	}
	if !h.closed || h.code != 1000 {
		t.Fatalf("closed=%v code=%d, want closed=true code=1000", h.closed, h.code)
	}
}

func TestOutOfRangeCloseCodeNormalizedTo1002(t *testing.T) {
	code := normalizeCloseCode(5000)
	if code != 1002 {
		t.Fatalf("normalizeCloseCode(5000) = %d, want 1002", code)
	}
	if normalizeCloseCode(1000) != 1000 {
		t.Fatal("valid close code must pass through unchanged")
	}
}
