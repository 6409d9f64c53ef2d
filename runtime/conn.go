package runtime

import "io"

// Stream is the writable side of one client connection. It is exclusively
// owned by the subscriber entry tracked for that connection.
type Stream interface {
	io.Writer

	// Flush pushes buffered data to the client. Transports that do not
	// buffer return nil.
	Flush() error

	// Close terminates the stream.
	Close() error
}

// Conn abstracts the transport response object for one subscriber
// connection: header writes, chunk writes, explicit flush, stream
// termination, and disconnect notification.
type Conn interface {
	Stream

	// WriteHeaders writes the response status and headers. Must be called
	// before the first Write.
	WriteHeaders(status int, headers map[string]string) error

	// OnClose registers fn to run when the transport observes the client
	// side of the connection closing. The returned cancel deregisters the
	// callback; calling it more than once, or after the callback has fired,
	// is a no-op.
	OnClose(fn func()) (cancel func())

	// RemoteAddr returns the client address for notifications.
	RemoteAddr() string
}
