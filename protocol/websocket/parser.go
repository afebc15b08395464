package websocket

import (
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// Protocol is the WebSocket protocol.Protocol implementation (spec.md
// §4.5). It is only ever installed by an upgrade from protocol/http1;
// it never originates a connection itself.
type Protocol struct {
	Cfg Config
}

func (p *Protocol) Kind() protocol.Kind { return protocol.KindWebSocket }

func (p *Protocol) NewState(bufferSize int) protocol.ProtoState {
	cfg := p.Cfg
	cfg.BufferSize = bufferSize
	return NewState(cfg)
}

// Parse reads as many complete frames as the buffer holds and, for
// each, either replies synchronously (ping/pong/close) or invokes the
// matching callback on handler if it implements
// request.WebSocketCallbacks. handler.ProcessRequest is never called
// here; the original HTTP/1.1 request already dispatched once, at
// upgrade time.
func (p *Protocol) Parse(state protocol.ProtoState, stream transport.Stream, handler request.Handler) protocol.Outcome {
	st := state.(*State)
	cb, _ := handler.(request.WebSocketCallbacks)

	n, err := stream.Read(st.Buf[st.BufLen:])
	if err != nil && err != transport.ErrWouldBlock {
		return protocol.OutcomeCloseConn
	}
	st.BufLen += n

	off := 0
	dispatched := false

	for {
		hdr, consumed, herr := parseFrameHeader(st.Buf[off:st.BufLen])
		if herr != nil {
			break
		}
		total := consumed + int(hdr.PayloadLen)
		if st.BufLen-off < total {
			break
		}

		payload := st.Buf[off+consumed : off+total]
		off += total

		out, closeConn := p.handleFrame(st, stream, cb, hdr, payload)
		if closeConn {
			return protocol.OutcomeCloseConn
		}
		if out {
			dispatched = true
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

// handleFrame processes one fully-buffered frame. The bool results are
// (dispatched, closeConn).
func (p *Protocol) handleFrame(st *State, stream transport.Stream, cb request.WebSocketCallbacks, hdr frameHeader, payload []byte) (bool, bool) {
	if hdr.RSV1 || hdr.RSV2 || hdr.RSV3 {
		_ = WriteCloseFrame(stream, 1002, "reserved bits set")
		return false, true
	}

	// Client frames MUST be masked (spec.md universal invariant 6);
	// unmask in place before any further processing.
	if !hdr.Masked {
		_ = WriteCloseFrame(stream, 1002, "unmasked client frame")
		return false, true
	}
	maskPayload(hdr.MaskKey, payload)

	if hdr.Opcode.isControl() {
		return p.handleControlFrame(st, stream, cb, hdr, payload)
	}
	return p.handleDataFrame(st, stream, cb, hdr, payload)
}

func (p *Protocol) handleControlFrame(st *State, stream transport.Stream, cb request.WebSocketCallbacks, hdr frameHeader, payload []byte) (bool, bool) {
	if !hdr.Fin || len(payload) > maxControlPayload {
		_ = WriteCloseFrame(stream, 1002, "fragmented or oversize control frame")
		return false, true
	}

	switch hdr.Opcode {
	case opPing:
		if cb != nil {
			cb.Ping(st.req, payload)
		}
		_ = WritePongFrame(stream, payload)
		return true, false

	case opPong:
		if cb != nil {
			cb.Pong(st.req, payload)
		}
		return true, false

	case opClose:
		if len(payload) == 1 {
			_ = WriteCloseFrame(stream, 1002, "truncated close payload")
			return false, true
		}
		code, reason := parseClosePayload(payload)
		code = normalizeCloseCode(code)
		if !st.closed {
			st.closed = true
			_ = WriteCloseFrame(stream, code, "")
		}
		if cb != nil {
			cb.Closed(st.req, code, reason)
		}
		return true, true

	default:
		_ = WriteCloseFrame(stream, 1002, "unknown control opcode")
		return false, true
	}
}

func (p *Protocol) handleDataFrame(st *State, stream transport.Stream, cb request.WebSocketCallbacks, hdr frameHeader, payload []byte) (bool, bool) {
	switch hdr.Opcode {
	case opText, opBinary:
		if st.fragmented {
			_ = WriteCloseFrame(stream, 1002, "new message started mid-fragment")
			return false, true
		}
		st.fragmented = !hdr.Fin
		st.msgOpcode = hdr.Opcode
		st.msgBuf = nil
		st.msgUTF8 = utf8Validator{}
		return p.appendAndMaybeDeliver(st, stream, cb, hdr.Opcode, payload, hdr.Fin)

	case opContinuation:
		if !st.fragmented {
			_ = WriteCloseFrame(stream, 1002, "continuation without a preceding fragment")
			return false, true
		}
		return p.appendAndMaybeDeliver(st, stream, cb, st.msgOpcode, payload, hdr.Fin)

	default:
		_ = WriteCloseFrame(stream, 1002, "unknown data opcode")
		return false, true
	}
}

func (p *Protocol) appendAndMaybeDeliver(st *State, stream transport.Stream, cb request.WebSocketCallbacks, op opcode, chunk []byte, fin bool) (bool, bool) {
	if op == opText {
		if !st.msgUTF8.write(chunk) {
			_ = WriteCloseFrame(stream, 1002, "invalid UTF-8")
			return false, true
		}
	}

	limit := st.cfg.MaxMessageSize
	if limit <= 0 {
		limit = defaultMaxMessageSize
	}
	if int64(len(st.msgBuf))+int64(len(chunk)) > limit {
		_ = WriteCloseFrame(stream, 1009, "message too large")
		return false, true
	}
	st.msgBuf = append(st.msgBuf, chunk...)

	if cb != nil {
		if op == opText {
			cb.TextFrame(st.req, chunk, fin)
		} else {
			cb.BinaryFrame(st.req, chunk, fin)
		}
	}

	if !fin {
		return true, false
	}

	if op == opText && !st.msgUTF8.complete() {
		_ = WriteCloseFrame(stream, 1002, "truncated UTF-8 sequence")
		st.resetMessage()
		return false, true
	}

	if cb != nil {
		if op == opText {
			cb.TextMessage(st.req, string(st.msgBuf))
		} else {
			cb.BinaryMessage(st.req, st.msgBuf)
		}
	}
	st.resetMessage()
	return true, false
}

// defaultMaxMessageSize matches spec.md §6's --websocket-max-size
// default of 1024 KiB when a connection's Config did not set one.
const defaultMaxMessageSize = 1024 * 1024
