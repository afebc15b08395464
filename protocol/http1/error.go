package http1

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorMalformedMethodLine errors.CodeError = iota + errors.MinPkgHttp1
	ErrorURITooLong
	ErrorBodySpill
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorMalformedMethodLine)
	errors.RegisterIdFctMessage(ErrorMalformedMethodLine, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorMalformedMethodLine:
		return "malformed http/1.1 method line"
	case ErrorURITooLong:
		return "request uri exceeds configured buffer size"
	case ErrorBodySpill:
		return "cannot create temporary file for request body"
	}

	return ""
}
