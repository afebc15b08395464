package engine

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorPollerInit errors.CodeError = iota + errors.MinPkgEngine
	ErrorWatchFailed
	ErrorWakeFailed
	ErrorUnknownConn
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorPollerInit)
	errors.RegisterIdFctMessage(ErrorPollerInit, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorPollerInit:
		return "engine: unable to initialize the poller"
	case ErrorWatchFailed:
		return "engine: unable to register interest for file descriptor"
	case ErrorWakeFailed:
		return "engine: unable to write to the wakeup pipe"
	case ErrorUnknownConn:
		return "engine: connection id not found in the registry"
	}
	return ""
}
