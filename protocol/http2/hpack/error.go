package hpack

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorDecompressionFailed errors.CodeError = iota + errors.MinPkgHpack
	ErrorTableSizeRejected
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorDecompressionFailed)
	errors.RegisterIdFctMessage(ErrorDecompressionFailed, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorDecompressionFailed:
		return "hpack: header block decompression failed"
	case ErrorTableSizeRejected:
		return "hpack: dynamic table size update exceeds negotiated maximum"
	}

	return ""
}
