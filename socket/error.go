package socket

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorUnsupportedUpgrade errors.CodeError = iota + errors.MinPkgSocket
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorUnsupportedUpgrade)
	errors.RegisterIdFctMessage(ErrorUnsupportedUpgrade, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorUnsupportedUpgrade:
		return "socket: protocol reported an upgrade this connection cannot apply"
	}
	return ""
}
