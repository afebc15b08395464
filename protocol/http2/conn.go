package http2

import (
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/protocol/http2/hpack"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// Protocol2 is the HTTP/2 protocol.Protocol implementation (spec.md §4.4).
type Protocol2 struct {
	Cfg Config
}

func (p *Protocol2) Kind() protocol.Kind { return protocol.KindHTTP2 }

// AdoptStream1 seeds a freshly upgraded h2c connection's stream 1 with the
// request that arrived over the prior HTTP/1.1 upgrade request and
// dispatches it immediately (RFC 7540 §3.2): the body was already fully
// read by the HTTP/1.1 parser, so stream 1 starts half-closed (remote) and
// nothing further is expected from the client for it. The client's HTTP/2
// connection preface and any subsequent frames still arrive on the wire
// and are handled by the first Parse call as usual.
func (st *State) AdoptStream1(stream transport.Stream, req *request.Request, handler request.Handler) {
	s := st.getOrCreateStream(1)
	s.State = StreamHalfClosed
	s.Request = req
	snk := newStreamSink(st, stream, s)
	_ = handler.ProcessRequest(req, snk)
}

func (p *Protocol2) NewState(bufferSize int) protocol.ProtoState {
	cfg := p.Cfg
	cfg.BufferSize = bufferSize
	return NewState(cfg)
}

// Parse implements the connection preface, frame-dispatch, and response
// flush loop for one readable event on stream. It is re-entered every
// time the owning Socket reports more bytes available; a connection
// spans many Parse calls across its lifetime.
func (p *Protocol2) Parse(state protocol.ProtoState, stream transport.Stream, handler request.Handler) protocol.Outcome {
	st := state.(*State)

	if !st.preludeDone {
		if err := st.sendPreface(stream); err != nil {
			return protocol.OutcomeCloseConn
		}
		st.preludeDone = true
	}

	n, err := stream.Read(st.Buf[st.BufLen:])
	if err != nil && err != transport.ErrWouldBlock {
		return protocol.OutcomeCloseConn
	}
	st.BufLen += n

	if st.ph == phasePreface {
		if st.BufLen < len(clientPreface) {
			return protocol.OutcomeNeedMore
		}
		if string(st.Buf[:len(clientPreface)]) != clientPreface {
			return protocol.OutcomeCloseConn
		}
		copy(st.Buf, st.Buf[len(clientPreface):st.BufLen])
		st.BufLen -= len(clientPreface)
		st.ph = phaseFrames
	}

	dispatched := false
	for {
		if st.BufLen < frameHeaderLen {
			break
		}
		hdr := parseFrameHeader(st.Buf[:frameHeaderLen])
		if hdr.Length > st.remoteSettings.MaxFrameSize {
			st.writeGoAway(stream, ErrCodeFrameSizeError)
			return protocol.OutcomeCloseConn
		}
		total := frameHeaderLen + int(hdr.Length)
		if st.BufLen < total {
			if total > len(st.Buf) {
				// frame larger than the configured buffer: reject rather
				// than attempt to grow the fixed-size buffer mid-stream.
				st.writeGoAway(stream, ErrCodeFrameSizeError)
				return protocol.OutcomeCloseConn
			}
			break
		}

		payload := st.Buf[frameHeaderLen:total]
		if out, wasDispatch := p.handleFrame(st, stream, handler, hdr, payload); out != protocol.OutcomeDispatched {
			if out != protocol.OutcomeNeedMore {
				return out
			}
		} else if wasDispatch {
			dispatched = true
		}

		copy(st.Buf, st.Buf[total:st.BufLen])
		st.BufLen -= total
	}

	if st.sawGoAway && len(st.streams) == 0 {
		return protocol.OutcomeCloseConn
	}
	if dispatched {
		return protocol.OutcomeDispatched
	}
	return protocol.OutcomeNeedMore
}

func (st *State) sendPreface(stream transport.Stream) error {
	var buf []byte
	buf = appendFrameHeader(buf, uint32(6*6), FrameSettings, 0, 0)
	buf = appendSettingsPayload(buf, st.localSettings)
	_, err := stream.Write(buf)
	return err
}

func (st *State) writeGoAway(stream transport.Stream, code ErrorCode) {
	if st.sawGoAway {
		return
	}
	st.sawGoAway = true
	var buf []byte
	var payload [8]byte
	payload[0] = byte(st.maxStreamID >> 24)
	payload[1] = byte(st.maxStreamID >> 16)
	payload[2] = byte(st.maxStreamID >> 8)
	payload[3] = byte(st.maxStreamID)
	payload[4] = byte(code >> 24)
	payload[5] = byte(code >> 16)
	payload[6] = byte(code >> 8)
	payload[7] = byte(code)
	buf = appendFrameHeader(buf, 8, FrameGoAway, 0, 0)
	buf = append(buf, payload[:]...)
	_, _ = stream.Write(buf)
}

func (st *State) writeRSTStream(stream transport.Stream, id uint32, code ErrorCode) {
	var buf []byte
	buf = appendFrameHeader(buf, 4, FrameRSTStream, 0, id)
	buf = append(buf, byte(code>>24), byte(code>>16), byte(code>>8), byte(code))
	_, _ = stream.Write(buf)
}

// handleFrame dispatches one fully-buffered frame per the table in
// spec.md §4.4. wasDispatch reports whether a request was handed to the
// application handler as a result (used only for the Outcome bookkeeping
// in Parse).
func (p *Protocol2) handleFrame(st *State, stream transport.Stream, handler request.Handler, hdr frameHeader, payload []byte) (out protocol.Outcome, wasDispatch bool) {
	if st.continuingOn != 0 && hdr.Type != FrameContinuation {
		st.writeGoAway(stream, ErrCodeProtocolError)
		return protocol.OutcomeCloseConn, false
	}

	switch hdr.Type {
	case FrameSettings:
		return p.handleSettings(st, stream, hdr, payload)
	case FrameHeaders:
		return p.handleHeaders(st, stream, handler, hdr, payload)
	case FrameContinuation:
		return p.handleContinuation(st, stream, handler, hdr, payload)
	case FrameData:
		return p.handleData(st, stream, hdr, payload)
	case FramePriority:
		return p.handlePriority(st, stream, hdr, payload)
	case FrameRSTStream:
		return p.handleRSTStream(st, hdr, payload)
	case FramePing:
		return p.handlePing(st, stream, hdr, payload)
	case FrameGoAway:
		st.sawGoAway = true
		return protocol.OutcomeNeedMore, false
	case FrameWindowUpdate:
		return p.handleWindowUpdate(st, stream, hdr, payload)
	case FramePushPromise:
		// this server never advertises push and never receives one from a
		// client (clients don't send PUSH_PROMISE); treat as a protocol
		// error.
		st.writeGoAway(stream, ErrCodeProtocolError)
		return protocol.OutcomeCloseConn, false
	default:
		// unknown frame type: ignore per RFC 7540 §4.1.
		return protocol.OutcomeNeedMore, false
	}
}

func (p *Protocol2) handleSettings(st *State, stream transport.Stream, hdr frameHeader, payload []byte) (protocol.Outcome, bool) {
	if hdr.StreamID != 0 {
		st.writeGoAway(stream, ErrCodeProtocolError)
		return protocol.OutcomeCloseConn, false
	}
	if hdr.Flags&FlagAck != 0 {
		if len(payload) != 0 {
			st.writeGoAway(stream, ErrCodeFrameSizeError)
			return protocol.OutcomeCloseConn, false
		}
		st.settingsAcked = true
		return protocol.OutcomeNeedMore, false
	}
	if len(payload)%6 != 0 {
		st.writeGoAway(stream, ErrCodeFrameSizeError)
		return protocol.OutcomeCloseConn, false
	}

	prevInitial := st.remoteSettings.InitialWindowSize
	parseSettingsPayload(payload, func(id SettingID, value uint32) {
		switch id {
		case SettingHeaderTableSize:
			st.remoteSettings.HeaderTableSize = value
			st.encoder.SetMaxDynamicTableSize(int(value))
		case SettingEnablePush:
			st.remoteSettings.EnablePush = value != 0
		case SettingMaxConcurrentStreams:
			st.remoteSettings.MaxConcurrentStreams = value
		case SettingInitialWindowSize:
			st.remoteSettings.InitialWindowSize = value
		case SettingMaxFrameSize:
			st.remoteSettings.MaxFrameSize = value
		case SettingMaxHeaderListSize:
			st.remoteSettings.MaxHeaderListSize = value
		}
	})

	if st.remoteSettings.InitialWindowSize != prevInitial {
		delta := int32(st.remoteSettings.InitialWindowSize) - int32(prevInitial)
		for _, s := range st.streams {
			s.SendWindow.shiftInitial(delta)
			if s.SendWindow.available() > 0 {
				s.resumeBlocked()
			}
		}
	}

	var ack []byte
	ack = appendFrameHeader(ack, 0, FrameSettings, FlagAck, 0)
	_, _ = stream.Write(ack)
	return protocol.OutcomeNeedMore, false
}

func (p *Protocol2) handlePing(st *State, stream transport.Stream, hdr frameHeader, payload []byte) (protocol.Outcome, bool) {
	if len(payload) != 8 || hdr.StreamID != 0 {
		st.writeGoAway(stream, ErrCodeFrameSizeError)
		return protocol.OutcomeCloseConn, false
	}
	if hdr.Flags&FlagAck != 0 {
		return protocol.OutcomeNeedMore, false
	}
	var buf []byte
	buf = appendFrameHeader(buf, 8, FramePing, FlagAck, 0)
	buf = append(buf, payload...)
	_, _ = stream.Write(buf)
	return protocol.OutcomeNeedMore, false
}

func (p *Protocol2) handlePriority(st *State, stream transport.Stream, hdr frameHeader, payload []byte) (protocol.Outcome, bool) {
	if hdr.Length != 5 {
		st.writeRSTStream(stream, hdr.StreamID, ErrCodeFrameSizeError)
		return protocol.OutcomeNeedMore, false
	}
	dep := uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3])
	dep &= 0x7fffffff
	if dep == hdr.StreamID {
		st.writeRSTStream(stream, hdr.StreamID, ErrCodeProtocolError)
	}
	return protocol.OutcomeNeedMore, false
}

func (p *Protocol2) handleRSTStream(st *State, hdr frameHeader, payload []byte) (protocol.Outcome, bool) {
	if hdr.Length != 4 {
		return protocol.OutcomeCloseConn, false
	}
	if s, ok := st.streams[hdr.StreamID]; ok {
		s.close()
		delete(st.streams, hdr.StreamID)
	}
	return protocol.OutcomeNeedMore, false
}

func (p *Protocol2) handleWindowUpdate(st *State, stream transport.Stream, hdr frameHeader, payload []byte) (protocol.Outcome, bool) {
	if hdr.Length != 4 {
		st.writeGoAway(stream, ErrCodeFrameSizeError)
		return protocol.OutcomeCloseConn, false
	}
	inc := uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3])
	inc &= 0x7fffffff
	if inc == 0 {
		if hdr.StreamID == 0 {
			st.writeGoAway(stream, ErrCodeProtocolError)
			return protocol.OutcomeCloseConn, false
		}
		st.writeRSTStream(stream, hdr.StreamID, ErrCodeProtocolError)
		return protocol.OutcomeNeedMore, false
	}

	if hdr.StreamID == 0 {
		if err := st.connSendWindow.increase(inc); err != nil {
			st.writeGoAway(stream, ErrCodeFlowControlError)
			return protocol.OutcomeCloseConn, false
		}
		for _, s := range st.streams {
			st.flushStream(stream, s)
		}
		return protocol.OutcomeNeedMore, false
	}

	s, ok := st.streams[hdr.StreamID]
	if !ok {
		return protocol.OutcomeNeedMore, false
	}
	if err := s.SendWindow.increase(inc); err != nil {
		st.writeRSTStream(stream, hdr.StreamID, ErrCodeFlowControlError)
		return protocol.OutcomeNeedMore, false
	}
	st.flushStream(stream, s)
	return protocol.OutcomeNeedMore, false
}

func (p *Protocol2) handleData(st *State, stream transport.Stream, hdr frameHeader, payload []byte) (protocol.Outcome, bool) {
	s, ok := st.streams[hdr.StreamID]
	if !ok || s.isClosed() {
		st.writeRSTStream(stream, hdr.StreamID, ErrCodeStreamClosed)
		return protocol.OutcomeNeedMore, false
	}

	body, padLen, err := stripPadding(hdr.Flags, payload)
	if err != nil {
		st.writeGoAway(stream, ErrCodeProtocolError)
		return protocol.OutcomeCloseConn, false
	}

	st.connRecvWindow.consume(int(hdr.Length))
	s.RecvWindow.consume(int(hdr.Length))
	_ = padLen

	s.bodyReceived += int64(len(body))
	if s.expectContLen >= 0 && s.bodyReceived > s.expectContLen {
		st.writeRSTStream(stream, hdr.StreamID, ErrCodeProtocolError)
		return protocol.OutcomeNeedMore, false
	}
	if s.Request != nil {
		appendStreamBody(s, body)
	}

	if hdr.Flags&FlagEndStream != 0 {
		s.halfCloseRemote()
		finishStreamBody(s)
		if s.pendingHandler != nil {
			h := s.pendingHandler
			s.pendingHandler = nil
			snk := newStreamSink(st, stream, s)
			_ = h.ProcessRequest(s.Request, snk)
			return protocol.OutcomeDispatched, true
		}
	}
	return protocol.OutcomeNeedMore, false
}

func stripPadding(flags uint8, payload []byte) (body []byte, padLen int, err error) {
	if flags&FlagPadded == 0 {
		return payload, 0, nil
	}
	if len(payload) == 0 {
		return nil, 0, errPseudoHeaderAfterRegular // any protocol error sentinel
	}
	padLen = int(payload[0])
	if padLen >= len(payload) {
		return nil, 0, errPseudoHeaderAfterRegular
	}
	return payload[1 : len(payload)-padLen], padLen, nil
}

func (p *Protocol2) handleHeaders(st *State, stream transport.Stream, handler request.Handler, hdr frameHeader, payload []byte) (protocol.Outcome, bool) {
	if hdr.StreamID == 0 || hdr.StreamID%2 == 0 {
		st.writeGoAway(stream, ErrCodeProtocolError)
		return protocol.OutcomeCloseConn, false
	}
	if hdr.StreamID <= st.maxStreamID {
		st.writeGoAway(stream, ErrCodeProtocolError)
		return protocol.OutcomeCloseConn, false
	}

	block, _, err := stripPadding(hdr.Flags, payload)
	if err != nil {
		st.writeGoAway(stream, ErrCodeProtocolError)
		return protocol.OutcomeCloseConn, false
	}
	if hdr.Flags&FlagPriority != 0 {
		if len(block) < 5 {
			st.writeGoAway(stream, ErrCodeFrameSizeError)
			return protocol.OutcomeCloseConn, false
		}
		block = block[5:]
	}

	s := st.getOrCreateStream(hdr.StreamID)
	s.open()
	s.headerBlock = append(s.headerBlock[:0:0], block...)
	s.headersEndStream = hdr.Flags&FlagEndStream != 0

	if hdr.Flags&FlagEndHeaders == 0 {
		st.continuingOn = hdr.StreamID
		return protocol.OutcomeNeedMore, false
	}

	return p.finishHeaderBlock(st, stream, handler, s)
}

func (p *Protocol2) handleContinuation(st *State, stream transport.Stream, handler request.Handler, hdr frameHeader, payload []byte) (protocol.Outcome, bool) {
	if st.continuingOn != hdr.StreamID {
		st.writeGoAway(stream, ErrCodeProtocolError)
		return protocol.OutcomeCloseConn, false
	}
	s := st.streams[hdr.StreamID]
	s.headerBlock = append(s.headerBlock, payload...)

	if hdr.Flags&FlagEndHeaders == 0 {
		return protocol.OutcomeNeedMore, false
	}
	st.continuingOn = 0
	// the END_STREAM flag, if any, was already recorded on the initiating
	// HEADERS frame; CONTINUATION never carries it.
	return p.finishHeaderBlock(st, stream, handler, s)
}

func (p *Protocol2) finishHeaderBlock(st *State, stream transport.Stream, handler request.Handler, s *Stream) (protocol.Outcome, bool) {
	endStream := s.headersEndStream
	fields, err := st.decoder.DecodeFull(s.headerBlock)
	if err != nil {
		st.writeGoAway(stream, ErrCodeCompressionError)
		return protocol.OutcomeCloseConn, false
	}
	s.headerBlock = nil

	req, berr := buildRequest(fields)
	if berr != nil {
		st.writeRSTStream(stream, s.ID, ErrCodeProtocolError)
		delete(st.streams, s.ID)
		return protocol.OutcomeNeedMore, false
	}
	s.Request = req
	s.expectContLen = req.ContentLength

	if endStream || req.ContentLength <= 0 {
		s.halfCloseRemote()
		finishStreamBody(s)
		snk := newStreamSink(st, stream, s)
		_ = handler.ProcessRequest(req, snk)
		return protocol.OutcomeDispatched, true
	}

	// body still arriving in subsequent DATA frames; dispatch happens
	// once the last DATA frame with END_STREAM is observed, in
	// handleData after finishStreamBody.
	s.pendingHandler = handler
	return protocol.OutcomeNeedMore, false
}
