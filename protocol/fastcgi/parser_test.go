package fastcgi

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
func (f *fakeStream) Write(b []byte) (int, error)               { return f.out.Write(b) }
func (f *fakeStream) Close() error                               { return nil }
func (f *fakeStream) FD() int                                    { return -1 }
func (f *fakeStream) Kind() transport.Kind                       { return transport.KindTCP }
func (f *fakeStream) PeerAddr() net.Addr                         { return nil }
func (f *fakeStream) LocalAddr() net.Addr                        { return nil }
func (f *fakeStream) IsTLSNegotiated() bool                      { return false }
func (f *fakeStream) SetOption(_ transport.Option, _ int) error  { return nil }
func (f *fakeStream) SetDeadline(_ time.Time) error              { return nil }

type echoHandler struct{ got *request.Request }

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

func appendParam(dst []byte, name, value string) []byte {
	dst = append(dst, byte(len(name)), byte(len(value)))
	dst = append(dst, name...)
	dst = append(dst, value...)
	return dst
}

func TestBeginParamsStdinDispatch(t *testing.T) {
	var wire []byte
	var begin []byte
	begin = append(begin, 0, byte(roleResponder), flagKeepConn, 0, 0, 0, 0, 0)
	wire = appendRecordHeader(wire, typeBeginRequest, 1, uint16(len(begin)), 0)
	wire = append(wire, begin...)

	var params []byte
	params = appendParam(params, "REQUEST_METHOD", "GET")
	params = appendParam(params, "SCRIPT_NAME", "/hello")
	params = appendParam(params, "SERVER_PROTOCOL", "HTTP/1.1")
	wire = appendRecordHeader(wire, typeParams, 1, uint16(len(params)), 0)
	wire = append(wire, params...)
	wire = appendRecordHeader(wire, typeParams, 1, 0, 0) // empty PARAMS: done

	wire = appendRecordHeader(wire, typeStdin, 1, 0, 0) // empty STDIN: no body, triggers dispatch

	stream := &fakeStream{in: bytes.NewReader(wire)}
	p := &Protocol1{Cfg: Config{BufferSize: 8192}}
	state := p.NewState(8192)
	h := &echoHandler{}

	out := p.Parse(state, stream, h)
	if out != protocol.OutcomeDispatched {
		t.Fatalf("Parse() = %v, want OutcomeDispatched (KEEP_CONN set)", out)
	}
	if h.got == nil || h.got.Method != "GET" || h.got.Path != "/hello" {
		t.Fatalf("request = %+v", h.got)
	}

	written := stream.out.Bytes()
	hdr := parseRecordHeader(written)
	if hdr.Type != typeStdout {
		t.Fatalf("first record written = %v, want STDOUT", hdr.Type)
	}
}

func TestBeginRequestWithoutKeepConnClosesAfterResponse(t *testing.T) {
	var wire []byte
	var begin []byte
	begin = append(begin, 0, byte(roleResponder), 0 /* no KEEP_CONN */, 0, 0, 0, 0, 0)
	wire = appendRecordHeader(wire, typeBeginRequest, 1, uint16(len(begin)), 0)
	wire = append(wire, begin...)
	wire = appendRecordHeader(wire, typeParams, 1, 0, 0)
	wire = appendRecordHeader(wire, typeStdin, 1, 0, 0)

	stream := &fakeStream{in: bytes.NewReader(wire)}
	p := &Protocol1{Cfg: Config{BufferSize: 8192}}
	state := p.NewState(8192)
	out := p.Parse(state, stream, &echoHandler{})
	if out != protocol.OutcomeCloseConn {
		t.Fatalf("Parse() = %v, want OutcomeCloseConn", out)
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	var wire []byte
	var begin []byte
	begin = append(begin, 0, byte(roleFilter), 0, 0, 0, 0, 0, 0)
	wire = appendRecordHeader(wire, typeBeginRequest, 1, uint16(len(begin)), 0)
	wire = append(wire, begin...)

	stream := &fakeStream{in: bytes.NewReader(wire)}
	p := &Protocol1{Cfg: Config{BufferSize: 8192}}
	state := p.NewState(8192)
	_ = p.Parse(state, stream, &echoHandler{})

	written := stream.out.Bytes()
	if len(written) < recordHeaderLen {
		t.Fatal("expected an END_REQUEST record for the rejected role")
	}
	hdr := parseRecordHeader(written)
	if hdr.Type != typeEndRequest {
		t.Fatalf("record type = %v, want END_REQUEST", hdr.Type)
	}
}
