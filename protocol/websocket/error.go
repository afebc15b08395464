package websocket

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorProtocolViolation errors.CodeError = iota + errors.MinPkgWebsocket
	ErrorMessageTooLarge
	ErrorInvalidUTF8
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorProtocolViolation)
	errors.RegisterIdFctMessage(ErrorProtocolViolation, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorProtocolViolation:
		return "websocket: protocol violation"
	case ErrorMessageTooLarge:
		return "websocket: message exceeds the configured size limit"
	case ErrorInvalidUTF8:
		return "websocket: invalid UTF-8 in text message"
	}
	return ""
}
