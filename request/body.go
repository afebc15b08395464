package request

import (
	"io"
	"os"
)

// BodyReader is the QIODevice-like abstraction every request body is
// exposed through, regardless of whether it landed in memory or on disk.
// Size returns -1 when the length is not known up front (never true for
// the in-memory/temp-file implementations below, both of which are only
// constructed once the whole body has been read, but kept for symmetry with
// Request.ContentLength's -1 sentinel).
type BodyReader interface {
	io.ReadCloser
	Size() int64
	Rewind() error
}

// emptyBody is used for requests with no body (or Content-Length: 0).
type emptyBody struct{}

// NewEmptyBody returns a BodyReader that immediately reports EOF.
func NewEmptyBody() BodyReader { return emptyBody{} }

func (emptyBody) Read(_ []byte) (int, error) { return 0, io.EOF }
func (emptyBody) Close() error               { return nil }
func (emptyBody) Size() int64                { return 0 }
func (emptyBody) Rewind() error              { return nil }

// memoryBody holds a body materialized entirely in RAM: used when
// Content-Length <= post_buffering.
type memoryBody struct {
	buf []byte
	pos int
}

// NewMemoryBody wraps buf (already fully read off the wire) as a BodyReader.
func NewMemoryBody(buf []byte) BodyReader {
	return &memoryBody{buf: buf}
}

func (b *memoryBody) Read(p []byte) (int, error) {
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += n
	return n, nil
}

func (b *memoryBody) Close() error  { return nil }
func (b *memoryBody) Size() int64   { return int64(len(b.buf)) }
func (b *memoryBody) Rewind() error { b.pos = 0; return nil }

// tempFileBody holds a body spilled to a temporary file: used when
// Content-Length > post_buffering, so the connection's parse buffer is
// never asked to hold the whole thing in memory.
type tempFileBody struct {
	f    *os.File
	size int64
}

// NewTempFileBody takes ownership of f (already written and positioned at
// the start by the caller) as a BodyReader of the given size.
func NewTempFileBody(f *os.File, size int64) BodyReader {
	return &tempFileBody{f: f, size: size}
}

func (b *tempFileBody) Read(p []byte) (int, error) { return b.f.Read(p) }

func (b *tempFileBody) Close() error {
	name := b.f.Name()
	err := b.f.Close()
	_ = os.Remove(name)
	return err
}

func (b *tempFileBody) Size() int64 { return b.size }

func (b *tempFileBody) Rewind() error {
	_, err := b.f.Seek(0, io.SeekStart)
	return err
}
