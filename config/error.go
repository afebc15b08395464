package config

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorInvalidFlag errors.CodeError = iota + errors.MinPkgConfig
	ErrorInvalidSocketSpec
	ErrorInvalidChownSpec
	ErrorTLSLoad
	ErrorFileMerge
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorInvalidFlag)
	errors.RegisterIdFctMessage(ErrorInvalidFlag, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorInvalidFlag:
		return "config: invalid flag value"
	case ErrorInvalidSocketSpec:
		return "config: invalid socket specification"
	case ErrorInvalidChownSpec:
		return "config: invalid chown-socket specification, expected uid:gid"
	case ErrorTLSLoad:
		return "config: unable to load TLS certificate/key pair"
	case ErrorFileMerge:
		return "config: unable to merge an --ini/--json config file"
	}
	return ""
}
