package http2

import (
	"errors"

	gowsgierrors "github.com/nabbar/gowsgi/errors"
)

var (
	errPseudoHeaderAfterRegular = errors.New("http2: pseudo-header field after regular field")
	errDuplicatePseudoHeader    = errors.New("http2: duplicate pseudo-header field")
	errUnknownPseudoHeader      = errors.New("http2: unknown pseudo-header field")
	errMissingPseudoHeader      = errors.New("http2: missing required pseudo-header field")
	errConnectionSpecificHeader = errors.New("http2: connection-specific header field not allowed")
	errInvalidTE                = errors.New("http2: TE header field must be \"trailers\"")
	errInvalidHeaderCase        = errors.New("http2: header field name must be lower-case")
)

const (
	ErrorBadPreface       gowsgierrors.CodeError = iota + gowsgierrors.MinPkgHttp2
	ErrorFrameSize
	ErrorUnexpectedContinuation
	ErrorMissingContinuation
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = gowsgierrors.ExistInMapMessage(ErrorBadPreface)
	gowsgierrors.RegisterIdFctMessage(ErrorBadPreface, getMessage)
}

func getMessage(code gowsgierrors.CodeError) (message string) {
	switch code {
	case gowsgierrors.UNK_ERROR:
		return ""
	case ErrorBadPreface:
		return "http2: invalid connection preface"
	case ErrorFrameSize:
		return "http2: frame exceeds negotiated maximum size"
	case ErrorUnexpectedContinuation:
		return "http2: CONTINUATION frame without preceding HEADERS"
	case ErrorMissingContinuation:
		return "http2: frame other than CONTINUATION while headers incomplete"
	}
	return ""
}
