package http2

import (
	"strconv"
	"strings"

	"github.com/nabbar/gowsgi/protocol/http2/hpack"
	"github.com/nabbar/gowsgi/request"
)

// buildRequest turns a decoded HPACK field list into a Request, applying
// the pseudo-header rules of RFC 7540 §8.1.2.3: :method, :path, :scheme
// are required; :authority is optional; pseudo-headers must precede
// regular fields and must not repeat; Connection-specific fields (RFC
// 7230 hop-by-hop headers) are forbidden on an HTTP/2 stream.
func buildRequest(fields []hpack.HeaderField) (*request.Request, error) {
	req := request.NewRequest()
	req.Proto = "HTTP/2.0"
	req.Scheme = request.SchemeHTTP
	req.ContentLength = -1

	seenMethod, seenPath, seenScheme, seenAuthority := false, false, false, false
	sawRegular := false

	for _, f := range fields {
		if strings.HasPrefix(f.Name, ":") {
			if sawRegular {
				return nil, errPseudoHeaderAfterRegular
			}
			switch f.Name {
			case ":method":
				if seenMethod {
					return nil, errDuplicatePseudoHeader
				}
				req.Method = f.Value
				seenMethod = true
			case ":path":
				if seenPath {
					return nil, errDuplicatePseudoHeader
				}
				if i := strings.IndexByte(f.Value, '?'); i >= 0 {
					req.Path = f.Value[:i]
					req.Query = []byte(f.Value[i+1:])
				} else {
					req.Path = f.Value
				}
				seenPath = true
			case ":scheme":
				if seenScheme {
					return nil, errDuplicatePseudoHeader
				}
				req.Scheme = request.Scheme(f.Value)
				seenScheme = true
			case ":authority":
				if seenAuthority {
					return nil, errDuplicatePseudoHeader
				}
				req.ServerAddr = f.Value
				seenAuthority = true
			default:
				return nil, errUnknownPseudoHeader
			}
			continue
		}

		sawRegular = true
		if hasUpper(f.Name) {
			return nil, errInvalidHeaderCase
		}
		if isConnectionSpecific(f.Name) {
			return nil, errConnectionSpecificHeader
		}
		if f.Name == "te" && !strings.EqualFold(f.Value, "trailers") {
			return nil, errInvalidTE
		}
		req.Header.Add(f.Name, f.Value)
	}

	if !seenMethod || !seenPath || !seenScheme {
		return nil, errMissingPseudoHeader
	}

	if cl := req.Header.Get("CONTENT_LENGTH"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n >= 0 {
			req.ContentLength = n
		}
	}
	return req, nil
}

// hasUpper reports whether name contains an ASCII upper-case letter.
// RFC 7540 §8.1.2 requires header field names to be lower-case on the
// wire; a compliant peer never sends one, so any upper-case byte here
// is a protocol error rather than a tolerated quirk.
func hasUpper(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' {
			return true
		}
	}
	return false
}

// isConnectionSpecific reports the RFC 7540 §8.1.2.2 forbidden fields: any
// hop-by-hop header that only made sense in HTTP/1.1's connection model.
// Decoded HPACK names are always lower-case on the wire.
func isConnectionSpecific(name string) bool {
	switch name {
	case "connection", "keep-alive", "proxy-connection", "transfer-encoding", "upgrade":
		return true
	}
	return false
}
