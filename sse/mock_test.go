package sse

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/kbukum/ssekit/runtime"
)

// fakeConn is an in-memory runtime.Conn for lifecycle and broadcast tests.
// The transport-side disconnect can be simulated with fireDisconnect, which
// honors a prior cancel the way a real transport watch does.
type fakeConn struct {
	mu sync.Mutex

	addr    string
	status  int
	headers map[string]string
	buf     bytes.Buffer

	headerErr error
	writeErr  error
	flushErr  error
	closeErr  error

	flushes int
	closes  int

	onClose   func()
	cancelled bool
}

var _ runtime.Conn = (*fakeConn)(nil)

func newFakeConn(addr string) *fakeConn {
	return &fakeConn{addr: addr}
}

func (c *fakeConn) WriteHeaders(status int, headers map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.headerErr != nil {
		return c.headerErr
	}
	c.status = status
	c.headers = headers
	return nil
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return c.buf.Write(p)
}

func (c *fakeConn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flushErr != nil {
		return c.flushErr
	}
	c.flushes++
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return c.closeErr
}

func (c *fakeConn) OnClose(fn func()) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cancelled = true
	}
}

func (c *fakeConn) RemoteAddr() string { return c.addr }

// fireDisconnect simulates the transport observing the client going away.
// Like a real watch, it does nothing once cancelled.
func (c *fakeConn) fireDisconnect() {
	c.mu.Lock()
	fn := c.onClose
	cancelled := c.cancelled
	c.mu.Unlock()

	if fn != nil && !cancelled {
		fn()
	}
}

func (c *fakeConn) written() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func (c *fakeConn) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

func (c *fakeConn) failWrites(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

// recordingNotifier captures notifications in order.
type recordingNotifier struct {
	mu     sync.Mutex
	events []runtime.Notification
}

func (n *recordingNotifier) Send(ev runtime.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) all() []runtime.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]runtime.Notification, len(n.events))
	copy(out, n.events)
	return out
}

// recordingStatus captures published status values.
type recordingStatus struct {
	mu     sync.Mutex
	states []Status
}

func (r *recordingStatus) Publish(st Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, st)
}

func (r *recordingStatus) last() (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return Status{}, false
	}
	return r.states[len(r.states)-1], true
}

func (r *recordingStatus) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// errWrite is a reusable write failure.
var errWrite = fmt.Errorf("broken pipe")
