package http2

import "encoding/binary"

// SettingID identifies one SETTINGS parameter (RFC 7540 §6.5.2).
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

// Settings holds the subset of peer-advertised parameters this server
// acts on. Unrecognized identifiers in an incoming frame are ignored per
// spec, not stored here.
type Settings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    uint32
}

// DefaultSettings are this server's own advertised values, sent in the
// connection-preface SETTINGS frame.
func DefaultSettings(bufferSize int) Settings {
	return Settings{
		HeaderTableSize:      4096,
		EnablePush:           false,
		MaxConcurrentStreams: 250,
		InitialWindowSize:    defaultWindowSize,
		MaxFrameSize:         maxFrameSizeFor(bufferSize),
		MaxHeaderListSize:    1 << 20,
	}
}

const defaultWindowSize = 65535

// maxFrameSizeFor is the frame-size ceiling a connection may advertise,
// per spec.md §4.4: min(buffer_size - 9, 16_777_215), never below the
// RFC-mandated floor of 16384.
func maxFrameSizeFor(bufferSize int) uint32 {
	n := bufferSize - frameHeaderLen
	if n < 16384 {
		n = 16384
	}
	if n > 16_777_215 {
		n = 16_777_215
	}
	return uint32(n)
}

// parseSettingsPayload decodes a SETTINGS frame body into (id, value)
// pairs; body length must already be validated as a multiple of 6.
func parseSettingsPayload(body []byte, apply func(id SettingID, value uint32)) {
	for i := 0; i+6 <= len(body); i += 6 {
		id := SettingID(binary.BigEndian.Uint16(body[i : i+2]))
		val := binary.BigEndian.Uint32(body[i+2 : i+6])
		apply(id, val)
	}
}

func appendSettingsPayload(dst []byte, s Settings) []byte {
	put := func(id SettingID, v uint32) {
		var b [6]byte
		binary.BigEndian.PutUint16(b[0:2], uint16(id))
		binary.BigEndian.PutUint32(b[2:6], v)
		dst = append(dst, b[:]...)
	}
	put(SettingHeaderTableSize, s.HeaderTableSize)
	ep := uint32(0)
	if s.EnablePush {
		ep = 1
	}
	put(SettingEnablePush, ep)
	put(SettingMaxConcurrentStreams, s.MaxConcurrentStreams)
	put(SettingInitialWindowSize, s.InitialWindowSize)
	put(SettingMaxFrameSize, s.MaxFrameSize)
	put(SettingMaxHeaderListSize, s.MaxHeaderListSize)
	return dst
}
