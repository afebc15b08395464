package request

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorHeadersAlreadySent errors.CodeError = iota + errors.MinPkgRequest
	ErrorHeadersNotSent
	ErrorNotWebsocket
	ErrorBodyClosed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorHeadersAlreadySent)
	errors.RegisterIdFctMessage(ErrorHeadersAlreadySent, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorHeadersAlreadySent:
		return "write_headers called more than once for this request"
	case ErrorHeadersNotSent:
		return "write called before write_headers"
	case ErrorNotWebsocket:
		return "websocket verb called on a non-websocket connection"
	case ErrorBodyClosed:
		return "read from a closed body"
	}

	return ""
}
