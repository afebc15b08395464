package http1

import (
	"os"

	"github.com/nabbar/gowsgi/request"
)

// bodySpill is the temp-file body destination used once Content-Length
// exceeds PostBuffering; see spec.md §4.3's body policy.
type bodySpill struct {
	f   *os.File
	n   int64
	cap int64
}

func newBodySpill(size int64) (*bodySpill, error) {
	f, err := os.CreateTemp("", "gowsgi-body-*")
	if err != nil {
		return nil, err
	}
	return &bodySpill{f: f, cap: size}, nil
}

func (b *bodySpill) write(p []byte) error {
	_, err := b.f.Write(p)
	b.n += int64(len(p))
	return err
}

func (b *bodySpill) finish() (request.BodyReader, error) {
	if _, err := b.f.Seek(0, 0); err != nil {
		return nil, err
	}
	return request.NewTempFileBody(b.f, b.n), nil
}
