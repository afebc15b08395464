package listener

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorBindFailed errors.CodeError = iota + errors.MinPkgListener
	ErrorListenFailed
	ErrorAcceptFailed
	ErrorChownFailed
	ErrorReusePortUnsupported
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorBindFailed)
	errors.RegisterIdFctMessage(ErrorBindFailed, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorBindFailed:
		return "listener: unable to bind the listening socket"
	case ErrorListenFailed:
		return "listener: unable to listen on the bound socket"
	case ErrorAcceptFailed:
		return "listener: accept failed"
	case ErrorChownFailed:
		return "listener: unable to chown the local socket"
	case ErrorReusePortUnsupported:
		return "listener: SO_REUSEPORT was requested on a platform that does not support it"
	}
	return ""
}
