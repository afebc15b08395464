package request

// ResponseSink is the contract the application collaborator uses to emit
// output for one Request. WriteHeaders is permitted exactly once per
// request, before any Write. The protocol front-ends' sinks answer a call
// out of that order by returning an error; they do not close the owning
// connection.
type ResponseSink interface {
	WriteHeaders(status int, header Header) error
	Write(b []byte) (int, error)
	Finish() error

	// WebSocket verbs. Valid only once the connection has upgraded via
	// WebsocketHandshake (or was already a WebSocket connection).
	SendText(b []byte) error
	SendBinary(b []byte) error
	SendPing(b []byte) error
	Close(code int, reason string) error

	// WebsocketHandshake is the one-shot call that turns an in-progress
	// HTTP/1.1 upgrade request into a WebSocket connection: it writes the
	// 101 response computed from key/origin/subprotocol and swaps the
	// owning Socket's Protocol.
	WebsocketHandshake(key, origin, subprotocol string) error
}

// Handler is the application collaborator invoked once per Request.
type Handler interface {
	ProcessRequest(req *Request, sink ResponseSink) error
}

// PostForkInitializer is an optional hook a Handler may additionally
// implement; it runs once per worker after fork, before the worker
// begins accepting connections.
type PostForkInitializer interface {
	PostForkInit(workerID int)
}

// ShutdownAware is an optional hook a Handler may additionally implement;
// it runs once per worker when a graceful shutdown begins.
type ShutdownAware interface {
	ShuttingDown()
}

// WebSocketCallbacks is the optional set of per-Request WebSocket
// callbacks a Handler may implement to receive frame/message events on a
// connection it has upgraded via ResponseSink.WebsocketHandshake.
type WebSocketCallbacks interface {
	TextFrame(req *Request, data []byte, fin bool)
	BinaryFrame(req *Request, data []byte, fin bool)
	TextMessage(req *Request, text string)
	BinaryMessage(req *Request, data []byte)
	Ping(req *Request, data []byte)
	Pong(req *Request, data []byte)
	Closed(req *Request, code int, reason string)
}
