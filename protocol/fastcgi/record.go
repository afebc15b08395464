package fastcgi

// recordType is the one-octet FastCGI record type (spec.md §4.6 / the
// FastCGI 1.0 specification §3.3).
type recordType uint8

const (
	typeBeginRequest recordType = 1
	typeAbortRequest recordType = 2
	typeEndRequest   recordType = 3
	typeParams       recordType = 4
	typeStdin        recordType = 5
	typeStdout       recordType = 6
	typeStderr       recordType = 7
	typeData         recordType = 8
)

const fcgiVersion = 1

// recordHeaderLen is the fixed 8-octet record header: version, type,
// request id (big-endian u16), content length (big-endian u16), padding
// length, and one reserved octet.
const recordHeaderLen = 8

type recordHeader struct {
	Type          recordType
	RequestID     uint16
	ContentLength uint16
	PaddingLength uint8
}

func parseRecordHeader(b []byte) recordHeader {
	return recordHeader{
		Type:          recordType(b[1]),
		RequestID:     uint16(b[2])<<8 | uint16(b[3]),
		ContentLength: uint16(b[4])<<8 | uint16(b[5]),
		PaddingLength: b[6],
	}
}

func appendRecordHeader(dst []byte, typ recordType, requestID uint16, contentLength uint16, padding uint8) []byte {
	return append(dst,
		fcgiVersion, byte(typ),
		byte(requestID>>8), byte(requestID),
		byte(contentLength>>8), byte(contentLength),
		padding, 0,
	)
}

// roles from the BEGIN_REQUEST body (spec.md §4.6 only implements
// Responder; Filter/Authorizer are rejected).
const (
	roleResponder uint16 = 1
	roleAuthorizer uint16 = 2
	roleFilter     uint16 = 3
)

const flagKeepConn uint8 = 1

// beginRequestBody is the fixed 8-octet BEGIN_REQUEST payload.
type beginRequestBody struct {
	Role     uint16
	KeepConn bool
}

func parseBeginRequestBody(b []byte) beginRequestBody {
	return beginRequestBody{
		Role:     uint16(b[0])<<8 | uint16(b[1]),
		KeepConn: b[2]&flagKeepConn != 0,
	}
}

// protocolStatus values for the END_REQUEST record (spec.md §4.6).
const (
	statusRequestComplete uint8 = 0
	statusCantMultiplex   uint8 = 1
	statusOverloaded      uint8 = 2
	statusUnknownRole     uint8 = 3
)

func appendEndRequestBody(dst []byte, appStatus uint32, protoStatus uint8) []byte {
	return append(dst,
		byte(appStatus>>24), byte(appStatus>>16), byte(appStatus>>8), byte(appStatus),
		protoStatus, 0, 0, 0,
	)
}

// paddingFor returns the padding length that rounds contentLength up to a
// multiple of 8, the alignment the FastCGI spec recommends (not required,
// but the teacher and peer implementations all emit it).
func paddingFor(contentLength int) uint8 {
	rem := contentLength % 8
	if rem == 0 {
		return 0
	}
	return uint8(8 - rem)
}
