package fastcgi

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorMalformedParams errors.CodeError = iota + errors.MinPkgFastCGI
	ErrorUnknownRole
	ErrorRecordOutOfOrder
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorMalformedParams)
	errors.RegisterIdFctMessage(ErrorMalformedParams, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorMalformedParams:
		return "fastcgi: malformed PARAMS record"
	case ErrorUnknownRole:
		return "fastcgi: role other than Responder not supported"
	case ErrorRecordOutOfOrder:
		return "fastcgi: record received before the stream it depends on"
	}
	return ""
}
