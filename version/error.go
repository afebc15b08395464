package version

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorParamEmpty errors.CodeError = iota + errors.MinPkgVersion
	ErrorGoVersionInit
	ErrorGoVersionRuntime
	ErrorGoVersionConstraint
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorParamEmpty)
	errors.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorParamEmpty:
		return "version: given parameters is empty"
	case ErrorGoVersionInit:
		return "version: init GoVersion contraint error"
	case ErrorGoVersionRuntime:
		return "version: extract GoVersion runtime error"
	case ErrorGoVersionConstraint:
		return "version: current binary is build with a non-compatible version of Go"
	}
	return ""
}
