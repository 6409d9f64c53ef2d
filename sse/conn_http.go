package sse

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/ssekit/logger"
	"github.com/kbukum/ssekit/runtime"
)

// HTTPConn adapts an http.ResponseWriter/Request pair to the runtime.Conn
// interface. Writes from the broadcast path and the lifecycle path are
// serialized through an internal mutex; Close stops further writes and lets
// the handler goroutine return, which terminates the HTTP stream.
type HTTPConn struct {
	w http.ResponseWriter
	r *http.Request

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

var _ runtime.Conn = (*HTTPConn)(nil)

// NewHTTPConn wraps a response writer and its request.
func NewHTTPConn(w http.ResponseWriter, r *http.Request) *HTTPConn {
	return &HTTPConn{
		w:    w,
		r:    r,
		done: make(chan struct{}),
	}
}

// WriteHeaders sets the SSE response headers and flushes the status line.
// It also clears the server's write deadline: SSE connections are
// long-lived and must not be cut by WriteTimeout.
func (c *HTTPConn) WriteHeaders(status int, headers map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return net.ErrClosed
	}

	rc := http.NewResponseController(c.w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Warn("could not disable write deadline", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
		// The connection may still work with keep-alives.
	}

	for k, v := range headers {
		c.w.Header().Set(k, v)
	}
	c.w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	c.w.WriteHeader(status)
	return nil
}

// Write writes a chunk to the response body.
func (c *HTTPConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}
	return c.w.Write(p)
}

// Flush pushes buffered data to the client if the transport supports it.
func (c *HTTPConn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return net.ErrClosed
	}
	if f, ok := c.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// Close marks the connection closed and releases the handler goroutine.
// Safe to call multiple times.
func (c *HTTPConn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
	return nil
}

// Closed is closed once Close has been called.
func (c *HTTPConn) Closed() <-chan struct{} {
	return c.done
}

// OnClose watches the request context and runs fn when the client side of
// the connection goes away. The returned cancel stops the watch; calling it
// after the callback fired, or more than once, is a no-op.
func (c *HTTPConn) OnClose(fn func()) (cancel func()) {
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		select {
		case <-c.r.Context().Done():
			fn()
		case <-stop:
		}
	}()

	return func() {
		once.Do(func() { close(stop) })
	}
}

// RemoteAddr returns the client address.
func (c *HTTPConn) RemoteAddr() string {
	return c.r.RemoteAddr
}
