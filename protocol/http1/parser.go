package http1

import (
	"bytes"
	"strconv"

	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// Protocol1 is the HTTP/1.1 protocol.Protocol implementation.
type Protocol1 struct {
	Cfg    Config
	DateFn func() string
}

func (p *Protocol1) Kind() protocol.Kind { return protocol.KindHTTP1 }

func (p *Protocol1) NewState(bufferSize int) protocol.ProtoState {
	cfg := p.Cfg
	cfg.BufferSize = bufferSize
	return NewState(cfg)
}

// Parse implements the MethodLine -> HeaderLine -> (ContentBody) ->
// dispatch -> MethodLine pipeline of spec.md §4.3. It is invoked by the
// owning Socket each time its Stream reports readable; it reads as many
// bytes as are currently available and processes as many complete
// requests as the buffer holds (pipelining).
func (p *Protocol1) Parse(state protocol.ProtoState, stream transport.Stream, handler request.Handler) protocol.Outcome {
	st := state.(*State)

	n, err := stream.Read(st.Buf[st.BufLen:])
	if err != nil && err != transport.ErrWouldBlock {
		return protocol.OutcomeCloseConn
	}
	st.BufLen += n

	dispatched := false

	for {
		switch st.phase {
		case PhaseMethodLine, PhaseHeaderLine:
			idx := bytes.Index(st.Buf[st.last:st.BufLen], []byte("\r\n"))
			if idx < 0 {
				p.compact(st)
				if st.BufLen == len(st.Buf) {
					p.writeOverTarget(stream)
					return protocol.OutcomeCloseConn
				}
				return p.outcome(dispatched)
			}
			line := st.Buf[st.last : st.last+idx]
			st.last += idx + 2

			if st.phase == PhaseMethodLine {
				if len(line) == 0 {
					// blank line before a method line: skip (tolerate
					// a stray CRLF left by some clients between
					// pipelined requests).
					continue
				}
				if err := p.parseMethodLine(st, line); err != nil {
					return protocol.OutcomeCloseConn
				}
				st.phase = PhaseHeaderLine
				continue
			}

			// PhaseHeaderLine
			if len(line) == 0 {
				if p.onHeadersComplete(st) {
					out := p.dispatch(st, stream, handler)
					dispatched = true
					if out != protocol.OutcomeDispatched {
						return out
					}
				}
				continue
			}
			p.parseHeaderLine(st, line)

		case PhaseContentBody:
			avail := st.BufLen - st.last
			if avail <= 0 {
				if st.bodyRemaining == 0 {
					p.finishBody(st)
					out := p.dispatch(st, stream, handler)
					dispatched = true
					if out != protocol.OutcomeDispatched {
						return out
					}
					continue
				}
				// compact and wait for more bytes.
				p.compact(st)
				return p.outcome(dispatched)
			}
			take := int64(avail)
			if take > st.bodyRemaining {
				take = st.bodyRemaining
			}
			chunk := st.Buf[st.last : st.last+int(take)]
			if st.bodyFile != nil {
				_ = st.bodyFile.write(chunk)
			} else {
				st.bodyMem = append(st.bodyMem, chunk...)
			}
			st.last += int(take)
			st.bodyRemaining -= take

			if st.bodyRemaining == 0 {
				p.finishBody(st)
				out := p.dispatch(st, stream, handler)
				dispatched = true
				if out != protocol.OutcomeDispatched {
					return out
				}
			}
		}

		if st.last >= st.BufLen {
			p.compact(st)
			if st.phase == PhaseMethodLine {
				return p.outcome(dispatched)
			}
		}
	}
}

func (p *Protocol1) outcome(dispatched bool) protocol.Outcome {
	if dispatched {
		return protocol.OutcomeDispatched
	}
	return protocol.OutcomeNeedMore
}

func (p *Protocol1) writeOverTarget(stream transport.Stream) {
	buf := []byte("HTTP/1.1 414 URI Too Long\r\nConnection: close\r\nContent-Length: 0\r\n\r\n")
	_, _ = stream.Write(buf)
}

func (p *Protocol1) parseMethodLine(st *State, line []byte) error {
	parts := bytes.SplitN(line, []byte(" "), 3)
	if len(parts) != 3 {
		return errMalformedMethodLine
	}
	req := request.NewRequest()
	req.Method = string(parts[0])

	target := parts[1]
	if i := bytes.IndexByte(target, '?'); i >= 0 {
		req.Path = string(target[:i])
		req.Query = append([]byte(nil), target[i+1:]...)
	} else {
		req.Path = string(target)
	}

	req.Proto = string(parts[2])
	req.Scheme = request.SchemeHTTP
	req.ContentLength = -1

	st.req = req
	return nil
}

func (p *Protocol1) parseHeaderLine(st *State, line []byte) {
	idx := bytes.IndexByte(line, ':')
	if idx < 0 {
		return
	}
	key := trimSpace(string(line[:idx]))
	val := trimSpace(string(line[idx+1:]))
	st.req.Header.Add(key, val)
}

// onHeadersComplete finishes header parsing and reports whether the
// request is ready to dispatch immediately (no body, or a malformed
// Content-Length treated as none). When it returns false, the parser has
// moved to PhaseContentBody and dispatch happens once the body is fully
// buffered (see the PhaseContentBody arm of Parse).
func (p *Protocol1) onHeadersComplete(st *State) bool {
	req := st.req

	if p.Cfg.UsingFrontendProxy && !st.ForwardedAbsorbed {
		applyForwarded(req)
		st.ForwardedAbsorbed = true
	}

	cl := req.Header.Get("CONTENT_LENGTH")
	if cl == "" {
		req.ContentLength = 0
		req.Body = request.NewEmptyBody()
		st.phase = PhaseMethodLine
		return true
	}

	n, err := strconv.ParseInt(cl, 10, 64)
	if err != nil || n < 0 {
		req.ContentLength = 0
		req.Body = request.NewEmptyBody()
		st.phase = PhaseMethodLine
		return true
	}
	req.ContentLength = n

	if n == 0 {
		req.Body = request.NewEmptyBody()
		st.phase = PhaseMethodLine
		return true
	}

	st.bodyRemaining = n
	if n > p.Cfg.PostBuffering {
		spill, serr := newBodySpill(n)
		if serr == nil {
			st.bodyFile = spill
		}
	} else {
		st.bodyMem = make([]byte, 0, n)
	}
	st.phase = PhaseContentBody
	return false
}

func (p *Protocol1) finishBody(st *State) {
	if st.bodyFile != nil {
		if b, err := st.bodyFile.finish(); err == nil {
			st.req.Body = b
		} else {
			st.req.Body = request.NewEmptyBody()
		}
	} else {
		st.req.Body = request.NewMemoryBody(st.bodyMem)
	}
}

func (p *Protocol1) dispatch(st *State, stream transport.Stream, handler request.Handler) protocol.Outcome {
	req := st.req

	if isH2CUpgradeRequest(req, p.Cfg.UpgradeH2C) {
		if err := writeH2CSwitchingProtocols(stream, p.DateFn); err != nil {
			return protocol.OutcomeCloseConn
		}
		st.upgradeTo = upgradeH2C
		return protocol.OutcomeUpgrade
	}

	snk := newSink(stream, st, p.DateFn)
	_ = handler.ProcessRequest(req, snk)

	if st.upgradeTo != upgradeNone {
		return protocol.OutcomeUpgrade
	}

	if st.wantsClose {
		st.Close = true
		return protocol.OutcomeCloseConn
	}

	st.resetForNextRequest()
	return protocol.OutcomeDispatched
}

// compact slides any unconsumed bytes (pipelined request start, or a
// partial line/body) to the front of the buffer.
func (p *Protocol1) compact(st *State) {
	if st.last == 0 {
		return
	}
	copy(st.Buf, st.Buf[st.last:st.BufLen])
	st.BufLen -= st.last
	st.last = 0
}

// PendingRequest returns the request adopted across an h2c upgrade, so
// the engine can seed the new HTTP/2 state's stream 1 with it.
func (st *State) PendingRequest() *request.Request { return st.req }

// IsUpgradeToWebSocket / IsUpgradeToH2C tell the engine which Protocol to
// install next after an OutcomeUpgrade return.
func (st *State) IsUpgradeToWebSocket() bool { return st.upgradeTo == upgradeWebSocket }
func (st *State) IsUpgradeToH2C() bool       { return st.upgradeTo == upgradeH2C }

func applyForwarded(req *request.Request) {
	if v := req.Header.Get("X_FORWARDED_FOR"); v != "" {
		req.RemoteAddr = v
	}
	if v := req.Header.Get("X_REAL_IP"); v != "" {
		req.RemoteAddr = v
	}
	if v := req.Header.Get("X_FORWARDED_HOST"); v != "" {
		req.ServerAddr = v
	}
	if v := req.Header.Get("X_FORWARDED_PROTO"); v != "" {
		req.Scheme = request.Scheme(v)
	}
}

var errMalformedMethodLine = malformedErr{}

type malformedErr struct{}

func (malformedErr) Error() string { return "http1: malformed method line" }
