package main

import (
	"fmt"

	"github.com/nabbar/gowsgi/logger"
	"github.com/nabbar/gowsgi/request"
)

// echoHandler is the embedded application collaborator this binary ships
// with. Its business logic is explicitly out of scope (see SPEC_FULL.md
// §1) — this is just enough of a request.Handler to prove every wire
// protocol reaches a real response: it echoes the method, path, protocol
// and remote address back as plain text. WebSocket text messages are
// only logged; nothing is sent back over the WebSocket.
type echoHandler struct {
	log logger.FuncLog
}

func newEchoHandler(log logger.FuncLog) *echoHandler {
	return &echoHandler{log: log}
}

func (h *echoHandler) ProcessRequest(req *request.Request, sink request.ResponseSink) error {
	body := fmt.Sprintf("%s %s %s\nremote: %s:%d\n", req.Method, req.Path, req.Proto, req.RemoteAddr, req.RemotePort)

	hdr := request.NewHeader()
	hdr.Set("Content-Type", "text/plain; charset=utf-8")
	hdr.Set("Server", "gowsgi")

	if err := sink.WriteHeaders(200, hdr); err != nil {
		return err
	}
	if _, err := sink.Write([]byte(body)); err != nil {
		return err
	}
	return sink.Finish()
}

// PostForkInit satisfies request.PostForkInitializer; nothing to warm up
// for an echo handler, but the hook is exercised so the server's fork
// path is proven to call it.
func (h *echoHandler) PostForkInit(workerID int) {
	if l := h.logFn(); l != nil {
		l.Info("handler: post-fork init", nil, "worker_id", workerID)
	}
}

// ShuttingDown satisfies request.ShutdownAware.
func (h *echoHandler) ShuttingDown() {
	if l := h.logFn(); l != nil {
		l.Info("handler: shutting down", nil)
	}
}

func (h *echoHandler) logFn() logger.Logger {
	if h.log == nil {
		return nil
	}
	return h.log()
}

// WebSocket callbacks: log every text message at debug level; nothing is
// sent back, and every other frame or event is ignored.
func (h *echoHandler) TextFrame(_ *request.Request, _ []byte, _ bool)          {}
func (h *echoHandler) BinaryFrame(_ *request.Request, _ []byte, _ bool)        {}
func (h *echoHandler) TextMessage(req *request.Request, text string) {
	if l := h.logFn(); l != nil {
		l.Debug("handler: websocket text message", nil, "len", len(text))
	}
}
func (h *echoHandler) BinaryMessage(_ *request.Request, _ []byte) {}
func (h *echoHandler) Ping(_ *request.Request, _ []byte)          {}
func (h *echoHandler) Pong(_ *request.Request, _ []byte)          {}
func (h *echoHandler) Closed(_ *request.Request, _ int, _ string) {}
