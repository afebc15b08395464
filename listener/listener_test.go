package listener_test

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/nabbar/gowsgi/listener"
	"github.com/nabbar/gowsgi/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func readAll(s transport.Stream, want int, timeout time.Duration) []byte {
	deadline := time.Now().Add(timeout)
	buf := make([]byte, want)
	got := 0
	for got < want && time.Now().Before(deadline) {
		n, err := s.Read(buf[got:])
		got += n
		if err != nil && !errors.Is(err, transport.ErrWouldBlock) {
			break
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
	return buf[:got]
}

var _ = Describe("TCP listener", func() {
	It("binds an ephemeral port and accepts a real connection", func() {
		l, err := listener.New(listener.Config{
			Network:    listener.NetworkTCP,
			Address:    "127.0.0.1:0",
			TCPNoDelay: true,
		})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = l.Close() }()

		accepted := make(chan transport.Stream, 1)
		acceptErr := make(chan error, 1)
		go func() {
			s, err := l.Accept()
			if err != nil {
				acceptErr <- err
				return
			}
			accepted <- s
		}()

		conn, err := net.Dial("tcp", l.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = conn.Close() }()

		_, err = conn.Write([]byte("hello"))
		Expect(err).ToNot(HaveOccurred())

		var stream transport.Stream
		Eventually(accepted, 2*time.Second).Should(Receive(&stream))
		defer func() { _ = stream.Close() }()

		Expect(stream.Kind()).To(Equal(transport.KindTCP))
		Expect(string(readAll(stream, 5, 2*time.Second))).To(Equal("hello"))
	})
})

var _ = Describe("Unix listener", func() {
	It("binds a socket file and accepts a real connection", func() {
		path := filepath.Join(os.TempDir(), "gowsgi-listener-test.sock")
		_ = os.Remove(path)

		l, err := listener.New(listener.Config{
			Network: listener.NetworkUnix,
			Address: path,
		})
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = l.Close() }()

		accepted := make(chan transport.Stream, 1)
		go func() {
			s, err := l.Accept()
			if err == nil {
				accepted <- s
			}
		}()

		conn, err := net.Dial("unix", path)
		Expect(err).ToNot(HaveOccurred())
		defer func() { _ = conn.Close() }()

		_, err = conn.Write([]byte("ping"))
		Expect(err).ToNot(HaveOccurred())

		var stream transport.Stream
		Eventually(accepted, 2*time.Second).Should(Receive(&stream))
		defer func() { _ = stream.Close() }()

		Expect(stream.Kind()).To(Equal(transport.KindUnix))
		Expect(string(readAll(stream, 4, 2*time.Second))).To(Equal("ping"))
	})
})

var _ = Describe("Balancer", func() {
	It("round-robins dispatched streams across targets", func() {
		var a, b int
		bal := listener.NewBalancer(
			func(transport.Stream) { a++ },
			func(transport.Stream) { b++ },
		)
		for i := 0; i < 4; i++ {
			bal.Dispatch(nil)
		}
		Expect(a).To(Equal(2))
		Expect(b).To(Equal(2))
	})
})
