// Package websocket implements the RFC 6455 framing layer (spec.md
// §4.5): frame header codec, fragmentation/message reassembly,
// incremental UTF-8 validation, and the control-frame (ping/pong/close)
// handshake. A connection only ever arrives here after an HTTP/1.1
// upgrade has already written the 101 response; this package never
// speaks HTTP.
package websocket

import (
	"encoding/binary"
	"errors"

	"github.com/nabbar/gowsgi/transport"
)

type opcode uint8

const (
	opContinuation opcode = 0x0
	opText         opcode = 0x1
	opBinary       opcode = 0x2
	opClose        opcode = 0x8
	opPing         opcode = 0x9
	opPong         opcode = 0xA
)

func (o opcode) isControl() bool { return o&0x8 != 0 }

// maxControlPayload bounds ping/pong/close payloads per RFC 6455 §5.5.
const maxControlPayload = 125

// ErrTruncated signals the header parser needs more buffered bytes.
var ErrTruncated = errors.New("websocket: truncated frame header")

// frameHeader is the 2-octet-plus-extensions header of one WebSocket
// frame (RFC 6455 §5.2).
type frameHeader struct {
	Fin        bool
	RSV1       bool
	RSV2       bool
	RSV3       bool
	Opcode     opcode
	Masked     bool
	PayloadLen uint64
	MaskKey    [4]byte
}

// parseFrameHeader decodes a frame header from the front of buf,
// reporting how many octets it consumed. It returns ErrTruncated (with
// consumed==0) if buf does not yet hold a complete header.
func parseFrameHeader(buf []byte) (frameHeader, int, error) {
	if len(buf) < 2 {
		return frameHeader{}, 0, ErrTruncated
	}
	b0, b1 := buf[0], buf[1]

	h := frameHeader{
		Fin:    b0&0x80 != 0,
		RSV1:   b0&0x40 != 0,
		RSV2:   b0&0x20 != 0,
		RSV3:   b0&0x10 != 0,
		Opcode: opcode(b0 & 0x0f),
		Masked: b1&0x80 != 0,
	}

	lenField := b1 & 0x7f
	off := 2

	switch {
	case lenField < 126:
		h.PayloadLen = uint64(lenField)
	case lenField == 126:
		if len(buf) < off+2 {
			return frameHeader{}, 0, ErrTruncated
		}
		h.PayloadLen = uint64(binary.BigEndian.Uint16(buf[off:]))
		off += 2
	default: // 127
		if len(buf) < off+8 {
			return frameHeader{}, 0, ErrTruncated
		}
		h.PayloadLen = binary.BigEndian.Uint64(buf[off:])
		off += 8
	}

	if h.Masked {
		if len(buf) < off+4 {
			return frameHeader{}, 0, ErrTruncated
		}
		copy(h.MaskKey[:], buf[off:off+4])
		off += 4
	}

	return h, off, nil
}

// appendServerFrame appends one unmasked server-to-client frame (RFC
// 6455 §5.2: servers never mask) carrying payload as a single
// unfragmented frame with the given opcode.
func appendServerFrame(dst []byte, op opcode, payload []byte) []byte {
	dst = append(dst, 0x80|byte(op))

	n := len(payload)
	switch {
	case n < 126:
		dst = append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 126, byte(n>>8), byte(n))
	default:
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(n))
		dst = append(dst, 127)
		dst = append(dst, lenBuf[:]...)
	}

	return append(dst, payload...)
}

// maskPayload applies the RFC 6455 §5.3 masking algorithm in place.
func maskPayload(key [4]byte, data []byte) {
	for i := range data {
		data[i] ^= key[i%4]
	}
}

func writeControlFrame(stream transport.Stream, op opcode, payload []byte) error {
	if len(payload) > maxControlPayload {
		payload = payload[:maxControlPayload]
	}
	buf := appendServerFrame(make([]byte, 0, len(payload)+10), op, payload)
	_, err := stream.Write(buf)
	return err
}

// WriteTextFrame writes data as one unfragmented, unmasked text frame.
// Exported for request.ResponseSink implementations (protocol/http1's
// sink, once a connection has upgraded) to reuse.
func WriteTextFrame(stream transport.Stream, data []byte) error {
	buf := appendServerFrame(make([]byte, 0, len(data)+10), opText, data)
	_, err := stream.Write(buf)
	return err
}

// WriteBinaryFrame writes data as one unfragmented, unmasked binary frame.
func WriteBinaryFrame(stream transport.Stream, data []byte) error {
	buf := appendServerFrame(make([]byte, 0, len(data)+10), opBinary, data)
	_, err := stream.Write(buf)
	return err
}

// WritePingFrame sends a Ping control frame carrying payload (truncated
// to maxControlPayload octets per RFC 6455 §5.5.2).
func WritePingFrame(stream transport.Stream, payload []byte) error {
	return writeControlFrame(stream, opPing, payload)
}

// WritePongFrame sends a Pong control frame, used for the auto-reply
// to an inbound Ping.
func WritePongFrame(stream transport.Stream, payload []byte) error {
	return writeControlFrame(stream, opPong, payload)
}

// allowedCloseCode reports whether code is one RFC 6455 §7.4.1 permits a
// peer to send on the wire (the registered set plus the private-use
// range), per spec.md §4.5.
func allowedCloseCode(code int) bool {
	switch code {
	case 1000, 1001, 1002, 1003, 1007, 1008, 1009, 1010, 1011:
		return true
	}
	return code >= 3000 && code <= 4999
}

// normalizeCloseCode rewrites any code outside the permitted set to
// 1002 (protocol error), per spec.md §4.5.
func normalizeCloseCode(code int) int {
	if allowedCloseCode(code) {
		return code
	}
	return 1002
}

// WriteCloseFrame writes a Close frame with the given code/reason,
// normalizing code first. reason is truncated so the whole control
// frame stays within maxControlPayload.
func WriteCloseFrame(stream transport.Stream, code int, reason string) error {
	code = normalizeCloseCode(code)
	payload := make([]byte, 2, 2+len(reason))
	binary.BigEndian.PutUint16(payload, uint16(code))
	payload = append(payload, reason...)
	if len(payload) > maxControlPayload {
		payload = payload[:maxControlPayload]
	}
	return writeControlFrame(stream, opClose, payload)
}

// parseClosePayload extracts the code/reason an inbound Close frame
// carried, per RFC 6455 §5.5.1: a payload of length 1 is a protocol
// error (caught by the caller), length 0 means "no status code given".
func parseClosePayload(payload []byte) (code int, reason string) {
	if len(payload) < 2 {
		return 1005, "" // 1005 "No Status Rcvd", never sent on the wire
	}
	code = int(binary.BigEndian.Uint16(payload))
	reason = string(payload[2:])
	return code, reason
}
