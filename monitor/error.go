package monitor

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorInfoNil errors.CodeError = iota + errors.MinPkgMonitor
	ErrorAlreadyRunning
	ErrorNotRunning
	ErrorListen
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorInfoNil)
	errors.RegisterIdFctMessage(ErrorInfoNil, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorInfoNil:
		return "monitor: info cannot be nil"
	case ErrorAlreadyRunning:
		return "monitor: already running"
	case ErrorNotRunning:
		return "monitor: not running"
	case ErrorListen:
		return "monitor: unable to bind the health/metrics listener"
	}
	return ""
}
