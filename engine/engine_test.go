package engine_test

import (
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/nabbar/gowsgi/engine"
	"github.com/nabbar/gowsgi/protocol/http1"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/socket"
	"github.com/nabbar/gowsgi/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// pipeStream is a transport.Stream backed by a real pair of os.Pipe file
// descriptors, so it can be Watch'd/Register'd on the real poller
// backend (epoll on Linux, poll(2) elsewhere) instead of a fake one.
type pipeStream struct {
	in  *os.File
	out *os.File
}

func newPipeStream() (srv *pipeStream, clientIn *os.File, clientOut *os.File) {
	inR, inW, err := os.Pipe()
	Expect(err).ToNot(HaveOccurred())
	outR, outW, err := os.Pipe()
	Expect(err).ToNot(HaveOccurred())
	return &pipeStream{in: inR, out: outW}, inW, outR
}

func (p *pipeStream) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *pipeStream) Write(b []byte) (int, error) { return p.out.Write(b) }
func (p *pipeStream) Close() error {
	_ = p.in.Close()
	return p.out.Close()
}
func (p *pipeStream) FD() int                                   { return int(p.in.Fd()) }
func (p *pipeStream) Kind() transport.Kind                      { return transport.KindTCP }
func (p *pipeStream) PeerAddr() net.Addr                        { return nil }
func (p *pipeStream) LocalAddr() net.Addr                       { return nil }
func (p *pipeStream) IsTLSNegotiated() bool                     { return false }
func (p *pipeStream) SetOption(_ transport.Option, _ int) error { return nil }
func (p *pipeStream) SetDeadline(_ time.Time) error             { return nil }

type countingHandler struct {
	n int32
}

func (h *countingHandler) ProcessRequest(_ *request.Request, sink request.ResponseSink) error {
	atomic.AddInt32(&h.n, 1)
	if err := sink.WriteHeaders(200, request.NewHeader()); err != nil {
		return err
	}
	return sink.Finish()
}

var _ = Describe("Engine", func() {
	var (
		e      engine.Engine
		done   chan error
		stopIt func()
	)

	BeforeEach(func() {
		var err error
		e, err = engine.New(engine.Config{IdleTimeout: 50 * time.Millisecond})
		Expect(err).ToNot(HaveOccurred())

		done = make(chan error, 1)
		go func() { done <- e.Run() }()
		stopIt = func() {
			e.Stop()
			Eventually(done, 2*time.Second).Should(Receive())
		}
	})

	AfterEach(func() {
		stopIt()
	})

	Describe("Watch", func() {
		It("fires the callback once the fd becomes readable", func() {
			r, w, err := os.Pipe()
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = r.Close(); _ = w.Close() }()

			fired := make(chan bool, 1)
			Expect(e.Watch(int(r.Fd()), true, false, func(_ int, readable, _ bool) {
				fired <- readable
			})).To(Succeed())

			_, err = w.Write([]byte("x"))
			Expect(err).ToNot(HaveOccurred())

			Eventually(fired, 2*time.Second).Should(Receive(BeTrue()))
		})
	})

	Describe("Post", func() {
		It("runs the posted function on the loop goroutine and wakes promptly", func() {
			ran := make(chan struct{})
			e.Post(func() { close(ran) })
			Eventually(ran, 2*time.Second).Should(BeClosed())
		})
	})

	Describe("AfterFunc", func() {
		It("fires exactly once", func() {
			var n int32
			e.AfterFunc(20*time.Millisecond, engine.ClassPrecise, func() {
				atomic.AddInt32(&n, 1)
			})
			time.Sleep(200 * time.Millisecond)
			Expect(atomic.LoadInt32(&n)).To(Equal(int32(1)))
		})
	})

	Describe("Every", func() {
		It("fires repeatedly until Stop", func() {
			var n int32
			e.Every(15*time.Millisecond, engine.ClassPrecise, func() {
				atomic.AddInt32(&n, 1)
			})
			waitUntil(2*time.Second, func() bool { return atomic.LoadInt32(&n) >= 3 })
		})
	})

	Describe("Register", func() {
		It("drives a pipe-backed connection to completion via Process", func() {
			stream, clientIn, clientOut := newPipeStream()
			proto := &http1.Protocol1{
				Cfg:    http1.Config{BufferSize: 4096, PostBuffering: 1 << 20},
				DateFn: func() string { return e.Date() },
			}
			sock := socket.New(stream, proto, socket.Config{BufferSize: 4096})
			h := &countingHandler{}

			var id uint64
			var regErr error
			registered := make(chan struct{})
			e.Post(func() {
				id, regErr = e.Register(sock, h)
				close(registered)
			})
			Eventually(registered, 2*time.Second).Should(BeClosed())
			Expect(regErr).ToNot(HaveOccurred())

			req := "GET /ping HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"
			_, err := clientIn.Write([]byte(req))
			Expect(err).ToNot(HaveOccurred())

			buf := make([]byte, 4096)
			_ = clientOut.SetReadDeadline(time.Now().Add(2 * time.Second))
			n, err := clientOut.Read(buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(buf[:n])).To(ContainSubstring("200"))
			Expect(atomic.LoadInt32(&h.n)).To(Equal(int32(1)))

			_ = id
		})
	})
})
