/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package request models the per-invocation record handed to the
// application collaborator: method, path, headers, body and the
// ResponseSink contract it writes through.
package request

import "strings"

// Header is a case-insensitive, insertion-order-preserving, multi-valued
// header map. All protocol front-ends (HTTP/1.1, HTTP/2, FastCGI) funnel
// their wire-specific header forms through Set/Add so the application
// collaborator sees one uniform shape regardless of origin protocol.
type Header struct {
	keys   []string // normalized key, first-seen order
	values map[string][]string
}

// NewHeader returns an empty, ready-to-use Header.
func NewHeader() Header {
	return Header{values: make(map[string][]string)}
}

// normalizeKey upper-cases and maps '-' to '_', the uniform internal form
// shared by every protocol front-end in this server.
func normalizeKey(key string) string {
	b := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '-' {
			b[i] = '_'
		} else if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		} else {
			b[i] = c
		}
	}
	return string(b)
}

// Add appends a value, preserving any existing values under key and
// recording first-seen insertion order.
func (h *Header) Add(key, value string) {
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	k := normalizeKey(key)
	if _, ok := h.values[k]; !ok {
		h.keys = append(h.keys, k)
	}
	h.values[k] = append(h.values[k], value)
}

// Set replaces all values under key with a single value.
func (h *Header) Set(key, value string) {
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	k := normalizeKey(key)
	if _, ok := h.values[k]; !ok {
		h.keys = append(h.keys, k)
	}
	h.values[k] = []string{value}
}

// Get returns the first value under key, or "" if absent.
func (h Header) Get(key string) string {
	v := h.values[normalizeKey(key)]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Values returns every value under key in insertion order.
func (h Header) Values(key string) []string {
	return h.values[normalizeKey(key)]
}

// Has reports whether key was ever Set/Add-ed.
func (h Header) Has(key string) bool {
	_, ok := h.values[normalizeKey(key)]
	return ok
}

// Del removes key entirely.
func (h *Header) Del(key string) {
	k := normalizeKey(key)
	delete(h.values, k)
	for i, kk := range h.keys {
		if kk == k {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the normalized header names in first-seen insertion order.
func (h Header) Keys() []string {
	return h.keys
}

// Len returns the number of distinct header names.
func (h Header) Len() int {
	return len(h.keys)
}

// Walk invokes fn once per (key, value) pair, in insertion order for keys
// and append order for values, stopping early if fn returns false.
func (h Header) Walk(fn func(key, value string) bool) {
	for _, k := range h.keys {
		for _, v := range h.values[k] {
			if !fn(k, v) {
				return
			}
		}
	}
}

// DisplayKey renders a normalized key back to the conventional wire form
// (Title-Case with hyphens), e.g. "CONTENT_TYPE" -> "Content-Type".
func DisplayKey(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, "-")
}
