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

// Package context holds Registry, the key-value slot map each Engine uses
// to track its live connections (key: stream id, value: *connEntry) without
// a mutex on the hot accept/read path. It ties its own lifetime to a
// parent context.Context: once that context is done, further writes are
// refused and the map is dropped.
package context

import (
	"context"

	libatm "github.com/nabbar/gowsgi/atomic"
)

// FuncWalk is called once per live entry during Walk; returning false
// stops the iteration early.
type FuncWalk[T comparable] func(key T, val interface{}) bool

// Registry is a context-scoped, concurrency-safe slot map. Store/Load/
// Delete/Walk are all safe to call from multiple goroutines at once;
// Store and Delete become no-ops (after a Clean) once the owning
// context.Context is done.
type Registry[T comparable] interface {
	context.Context

	Load(key T) (val interface{}, ok bool)
	Store(key T, cfg interface{})
	Delete(key T)

	// Clean drops every entry at once.
	Clean()
	// Walk calls fct for every live entry in unspecified order, stopping
	// early if fct returns false.
	Walk(fct FuncWalk[T])
}

// New returns an empty Registry scoped to ctx (context.Background() if
// nil).
func New[T comparable](ctx context.Context) Registry[T] {
	if ctx == nil {
		ctx = context.Background()
	}

	return &ccx[T]{
		m: libatm.NewMapAny[T](),
		x: ctx,
	}
}
