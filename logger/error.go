package logger

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorHookFileOpen errors.CodeError = iota + errors.MinPkgLogger
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorHookFileOpen)
	errors.RegisterIdFctMessage(ErrorHookFileOpen, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorHookFileOpen:
		return "logger: unable to open log file"
	}
	return ""
}
