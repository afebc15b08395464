package transport

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorAccept errors.CodeError = iota + errors.MinPkgTransport
	ErrorTLSHandshake
	ErrorSetOption
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorAccept)
	errors.RegisterIdFctMessage(ErrorAccept, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorAccept:
		return "cannot accept connection on listening socket"
	case ErrorTLSHandshake:
		return "tls handshake failed"
	case ErrorSetOption:
		return "cannot set socket option"
	}

	return ""
}
