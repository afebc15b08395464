package fastcgi

import (
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// Protocol1 is the FastCGI/1 protocol.Protocol implementation (spec.md
// §4.6): this server always plays the Responder role's application side
// (it receives BEGIN_REQUEST/PARAMS/STDIN from a front-end web server and
// answers with STDOUT/END_REQUEST), never the client side of the
// protocol.
type Protocol1 struct {
	Cfg Config
}

func (p *Protocol1) Kind() protocol.Kind { return protocol.KindFastCGI }

func (p *Protocol1) NewState(bufferSize int) protocol.ProtoState {
	cfg := p.Cfg
	cfg.BufferSize = bufferSize
	return NewState(cfg)
}

func (p *Protocol1) Parse(state protocol.ProtoState, stream transport.Stream, handler request.Handler) protocol.Outcome {
	st := state.(*State)

	n, err := stream.Read(st.Buf[st.BufLen:])
	if err != nil && err != transport.ErrWouldBlock {
		return protocol.OutcomeCloseConn
	}
	st.BufLen += n

	dispatched := false
	off := 0
	for {
		remaining := st.Buf[off:st.BufLen]
		if len(remaining) < recordHeaderLen {
			break
		}
		hdr := parseRecordHeader(remaining)
		total := recordHeaderLen + int(hdr.ContentLength) + int(hdr.PaddingLength)
		if len(remaining) < total {
			break
		}
		body := remaining[recordHeaderLen : recordHeaderLen+int(hdr.ContentLength)]

		out := p.handleRecord(st, stream, handler, hdr, body)
		off += total
		switch out {
		case protocol.OutcomeDispatched:
			dispatched = true
		case protocol.OutcomeCloseConn:
			return protocol.OutcomeCloseConn
		}
	}

	if off > 0 {
		copy(st.Buf, st.Buf[off:st.BufLen])
		st.BufLen -= off
	}

	if dispatched {
		return protocol.OutcomeDispatched
	}
	return protocol.OutcomeNeedMore
}

func (p *Protocol1) handleRecord(st *State, stream transport.Stream, handler request.Handler, hdr recordHeader, body []byte) protocol.Outcome {
	st.id = hdr.RequestID

	switch hdr.Type {
	case typeBeginRequest:
		if len(body) < 8 {
			return protocol.OutcomeCloseConn
		}
		begin := parseBeginRequestBody(body)
		if begin.Role != roleResponder {
			writeEndRequest(stream, hdr.RequestID, 0, statusUnknownRole)
			return protocol.OutcomeNeedMore
		}
		st.reset()
		st.haveBegin = true
		st.keepConn = begin.KeepConn
		st.req = request.NewRequest()
		st.req.Proto = "FCGI/1"
		st.req.ContentLength = -1
		return protocol.OutcomeNeedMore

	case typeAbortRequest:
		st.reset()
		writeEndRequest(stream, hdr.RequestID, 0, statusRequestComplete)
		return protocol.OutcomeNeedMore

	case typeParams:
		if !st.haveBegin {
			return protocol.OutcomeCloseConn
		}
		if len(body) == 0 {
			st.paramsDone = true
			return protocol.OutcomeNeedMore
		}
		if !parseParams(body, func(name, value string) { applyParam(st.req, name, value) }) {
			return protocol.OutcomeCloseConn
		}
		return protocol.OutcomeNeedMore

	case typeStdin:
		if !st.haveBegin || !st.paramsDone {
			return protocol.OutcomeCloseConn
		}
		if len(body) == 0 {
			st.bodyDone = true
			return p.dispatch(st, stream, handler)
		}
		st.bodyBuf = append(st.bodyBuf, body...)
		return protocol.OutcomeNeedMore

	default:
		// typeData/unknown: this server's Responder role does not
		// consume a Filter-role FCGI_DATA stream; ignore.
		return protocol.OutcomeNeedMore
	}
}

func (p *Protocol1) dispatch(st *State, stream transport.Stream, handler request.Handler) protocol.Outcome {
	req := st.req
	if st.bodyBuf == nil {
		req.Body = request.NewEmptyBody()
	} else {
		req.Body = request.NewMemoryBody(st.bodyBuf)
	}

	snk := newSink(stream, st)
	_ = handler.ProcessRequest(req, snk)

	keepConn := st.keepConn
	st.reset()
	if !keepConn {
		return protocol.OutcomeCloseConn
	}
	return protocol.OutcomeDispatched
}

func writeEndRequest(stream transport.Stream, id uint16, appStatus uint32, protoStatus uint8) {
	var buf []byte
	buf = appendRecordHeader(buf, typeEndRequest, id, 8, 0)
	buf = appendEndRequestBody(buf, appStatus, protoStatus)
	_, _ = stream.Write(buf)
}
