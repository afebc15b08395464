/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package logger

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is a uint8 customized with helpers to gate and render log entries.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	// NilLevel disables logging entirely; it is a threshold only, never the level of an entry.
	NilLevel
)

// GetLevelListString returns the lowercase string form of every usable level.
func GetLevelListString() []string {
	return []string{
		strings.ToLower(PanicLevel.String()),
		strings.ToLower(FatalLevel.String()),
		strings.ToLower(ErrorLevel.String()),
		strings.ToLower(WarnLevel.String()),
		strings.ToLower(InfoLevel.String()),
		strings.ToLower(DebugLevel.String()),
	}
}

// GetLevelString maps a CLI/config string to a Level, defaulting to InfoLevel.
func GetLevelString(l string) Level {
	switch {
	case strings.EqualFold(l, "panic") || strings.EqualFold(l, PanicLevel.String()):
		return PanicLevel
	case strings.EqualFold(l, "fatal") || strings.EqualFold(l, FatalLevel.String()):
		return FatalLevel
	case strings.EqualFold(l, ErrorLevel.String()):
		return ErrorLevel
	case strings.EqualFold(l, "warn") || strings.EqualFold(l, WarnLevel.String()):
		return WarnLevel
	case strings.EqualFold(l, InfoLevel.String()):
		return InfoLevel
	case strings.EqualFold(l, DebugLevel.String()):
		return DebugLevel
	case strings.EqualFold(l, "nil"):
		return NilLevel
	}

	return InfoLevel
}

func (l Level) Uint8() uint8 {
	return uint8(l)
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "Debug"
	case InfoLevel:
		return "Info"
	case WarnLevel:
		return "Warning"
	case ErrorLevel:
		return "Error"
	case FatalLevel:
		return "Fatal Error"
	case PanicLevel:
		return "Critical Error"
	case NilLevel:
		return ""
	}

	return "unknown"
}

// Logrus converts this Level to the logrus.Level used by the underlying hooks.
func (l Level) Logrus() logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	case PanicLevel:
		return logrus.PanicLevel
	default:
		return math.MaxInt32
	}
}
