package fork

import "github.com/nabbar/gowsgi/errors"

const (
	ErrorSpawnFailed errors.CodeError = iota + errors.MinPkgFork
	ErrorNoWorkerSlot
	ErrorPrivilegeDrop
	ErrorPidFile
	ErrorTouchReload
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorSpawnFailed)
	errors.RegisterIdFctMessage(ErrorSpawnFailed, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorSpawnFailed:
		return "fork: unable to spawn worker process"
	case ErrorNoWorkerSlot:
		return "fork: no worker slot survived startup"
	case ErrorPrivilegeDrop:
		return "fork: unable to drop privileges"
	case ErrorPidFile:
		return "fork: unable to write pid file"
	case ErrorTouchReload:
		return "fork: unable to watch touch-reload path"
	}
	return ""
}
