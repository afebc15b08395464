/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package atomic holds the two lock-free primitives the server's hot path
// needs: a typed atomic.Value used by socket.Socket to count in-flight
// requests without a mutex, and a sync.Map-backed Map used by context.Registry
// to back a connection slot-map. Neither needs the full load/store/swap/CAS
// surface a generic atomics library would expose; both are trimmed to the
// handful of operations actually called.
package atomic

import (
	"sync"
	"sync/atomic"
)

// Value is a typed wrapper over sync/atomic.Value.
type Value[T any] interface {
	Load() (val T)
	Store(val T)
}

// Map is a typed-key wrapper over sync.Map; values stay `any` since callers
// (context.Registry) juggle more than one value shape per key space.
type Map[K comparable] interface {
	Load(key K) (value any, ok bool)
	Store(key K, value any)
	Delete(key K)

	// Range calls f for every key, in unspecified order, until f returns
	// false or the map is exhausted.
	Range(f func(key K, value any) bool)
}

// NewValue returns a Value holding the zero value of T.
func NewValue[T any]() Value[T] {
	return &val[T]{av: new(atomic.Value)}
}

// NewMapAny returns an empty, sync.Map-backed Map.
func NewMapAny[K comparable]() Map[K] {
	return &ma[K]{m: sync.Map{}}
}
