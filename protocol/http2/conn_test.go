package http2

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/protocol/http2/hpack"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// fakeStream is a minimal transport.Stream over in-memory buffers, used
// only to drive Protocol2.Parse in these tests.
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
func (f *fakeStream) Write(b []byte) (int, error)    { return f.out.Write(b) }
func (f *fakeStream) Close() error                   { return nil }
func (f *fakeStream) FD() int                        { return -1 }
func (f *fakeStream) Kind() transport.Kind            { return transport.KindTCP }
func (f *fakeStream) PeerAddr() net.Addr              { return nil }
func (f *fakeStream) LocalAddr() net.Addr             { return nil }
func (f *fakeStream) IsTLSNegotiated() bool           { return false }
func (f *fakeStream) SetOption(_ transport.Option, _ int) error { return nil }
func (f *fakeStream) SetDeadline(_ time.Time) error   { return nil }

type echoHandler struct {
	got *request.Request
}

func (h *echoHandler) ProcessRequest(req *request.Request, sink request.ResponseSink) error {
	h.got = req
	hdr := request.NewHeader()
	hdr.Set("Content-Type", "text/plain")
	if err := sink.WriteHeaders(200, hdr); err != nil {
		return err
	}
	if _, err := sink.Write([]byte("hi")); err != nil {
		return err
	}
	return sink.Finish()
}

// buildRequestFrame encodes a minimal GET / request as a HEADERS frame
// with END_HEADERS|END_STREAM, grounding scenario S3 from spec.md §8.
func buildRequestFrame(t *testing.T) []byte {
	t.Helper()
	enc := hpack.NewEncoder(4096)
	var block []byte
	block = enc.EncodeField(block, hpack.HeaderField{Name: ":method", Value: "GET"}, false)
	block = enc.EncodeField(block, hpack.HeaderField{Name: ":path", Value: "/"}, false)
	block = enc.EncodeField(block, hpack.HeaderField{Name: ":scheme", Value: "https"}, false)
	block = enc.EncodeField(block, hpack.HeaderField{Name: ":authority", Value: "x"}, false)

	var frame []byte
	frame = appendFrameHeader(frame, uint32(len(block)), FrameHeaders, FlagEndHeaders|FlagEndStream, 1)
	frame = append(frame, block...)
	return frame
}

func TestPrefaceSettingsAndGetRequest(t *testing.T) {
	var wire []byte
	wire = append(wire, []byte(clientPreface)...)
	// empty client SETTINGS frame
	wire = appendFrameHeader(wire, 0, FrameSettings, 0, 0)
	wire = append(wire, buildRequestFrame(t)...)

	stream := &fakeStream{in: bytes.NewReader(wire)}
	p := &Protocol2{Cfg: Config{BufferSize: 16393}}
	state := p.NewState(16393)

	h := &echoHandler{}
	out := p.Parse(state, stream, h)
	if out != protocol.OutcomeDispatched {
		t.Fatalf("Parse() outcome = %v, want OutcomeDispatched", out)
	}
	if h.got == nil {
		t.Fatal("handler was not invoked")
	}
	if h.got.Method != "GET" || h.got.Path != "/" {
		t.Fatalf("request = %+v", h.got)
	}

	written := stream.out.Bytes()
	if len(written) < frameHeaderLen {
		t.Fatal("no frames written back")
	}
	first := parseFrameHeader(written[:frameHeaderLen])
	if first.Type != FrameSettings {
		t.Fatalf("first frame written = %v, want SETTINGS (connection preface)", first.Type)
	}
}

func TestEmptySettingsFrameKeepsConnection(t *testing.T) {
	var wire []byte
	wire = append(wire, []byte(clientPreface)...)
	wire = appendFrameHeader(wire, 0, FrameSettings, 0, 0)

	stream := &fakeStream{in: bytes.NewReader(wire)}
	p := &Protocol2{Cfg: Config{BufferSize: 16393}}
	state := p.NewState(16393)
	out := p.Parse(state, stream, &echoHandler{})
	if out == protocol.OutcomeCloseConn {
		t.Fatal("valid empty SETTINGS should not close the connection")
	}
}

func TestWindowUpdateZeroIncrementIsProtocolError(t *testing.T) {
	var wire []byte
	wire = append(wire, []byte(clientPreface)...)
	wire = appendFrameHeader(wire, 0, FrameSettings, 0, 0)
	wire = appendFrameHeader(wire, 4, FrameWindowUpdate, 0, 0)
	wire = append(wire, 0, 0, 0, 0)

	stream := &fakeStream{in: bytes.NewReader(wire)}
	p := &Protocol2{Cfg: Config{BufferSize: 16393}}
	state := p.NewState(16393)
	out := p.Parse(state, stream, &echoHandler{})
	if out != protocol.OutcomeCloseConn {
		t.Fatalf("Parse() outcome = %v, want OutcomeCloseConn (GOAWAY on zero increment)", out)
	}
}
