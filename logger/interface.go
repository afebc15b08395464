/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger is this server's structured logging layer: a small,
// level-gated wrapper around logrus with pluggable stdout/file hooks and a
// bridge into spf13/jwalterweatherman so cobra/viper's own log chatter
// lands in the same place as the server's. Every component that logs
// (engine, fork, cmd/gowsgi's worker and handler) takes a logger.FuncLog rather than a
// concrete Logger, the same dependency-injection idiom the teacher uses.
package logger

import (
	"context"
	"io"
	"log"

	"github.com/sirupsen/logrus"
	jww "github.com/spf13/jwalterweatherman"
)

// FuncLog returns a Logger lazily; components hold a FuncLog instead of a
// Logger so construction order never forces a nil logger into existence.
type FuncLog func() Logger

// Logger is the subset of the teacher's logging surface this server
// exercises: leveled entries, structured fields, and the stdlib/jww
// bridges needed to fold cobra/viper output into the same stream.
type Logger interface {
	io.WriteCloser

	SetLevel(lvl Level)
	GetLevel() Level

	SetFields(f Fields)
	GetFields() Fields

	// AddHook registers an output sink (HookStdOut, HookFile, ...) that
	// receives every entry emitted from here on.
	AddHook(h logrus.Hook)

	Debug(message string, data interface{}, args ...interface{})
	Info(message string, data interface{}, args ...interface{})
	Warning(message string, data interface{}, args ...interface{})
	Error(message string, data interface{}, args ...interface{})
	Fatal(message string, data interface{}, args ...interface{})
	Panic(message string, data interface{}, args ...interface{})

	// GetStdLogger adapts this Logger to the stdlib's log.Logger, for the
	// handful of stdlib/third-party APIs that only accept one.
	GetStdLogger(lvl Level, logFlags int) *log.Logger

	// SetSPF13Level bridges jwalterweatherman (the logger cobra/viper use
	// internally) onto this Logger at the given level.
	SetSPF13Level(lvl Level, notepad *jww.Notepad)
}

// New builds a Logger at InfoLevel with no hooks attached; callers wire in
// NewHookStdOut/NewHookFile before anything is expected to actually reach
// an output. ctx is only used to derive the cancellation the underlying
// libctx.Registry rides on; a nil ctx defaults to context.Background.
func New(ctx context.Context) Logger {
	return newLogger(ctx)
}
