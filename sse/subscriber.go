package sse

import (
	"sync"

	"github.com/kbukum/ssekit/runtime"
)

// Subscriber is one admitted client connection: the unit of registry state.
// It is owned exclusively by the Registry; the stream handle is never
// aliased outside the registry and the lifecycle path tearing it down.
type Subscriber struct {
	// ID is the correlation identifier, the sole lookup and removal key.
	ID string
	// Addr is the client address, captured at admission for notifications.
	Addr string

	stream runtime.Stream

	cancel     func()
	cancelOnce sync.Once

	done     chan struct{}
	doneOnce sync.Once
}

// NewSubscriber creates a subscriber entry for the given stream.
func NewSubscriber(id string, stream runtime.Stream, addr string) *Subscriber {
	return &Subscriber{
		ID:     id,
		Addr:   addr,
		stream: stream,
		done:   make(chan struct{}),
	}
}

// Stream returns the entry's writable stream handle.
func (s *Subscriber) Stream() runtime.Stream {
	return s.stream
}

// SetCancel stores the disconnect-watch cancellation for this entry.
// Called once, before admission.
func (s *Subscriber) SetCancel(cancel func()) {
	s.cancel = cancel
}

// Detach deregisters the disconnect watch. Both the disconnect path and the
// server-removal path may race to call this; only the first has effect.
func (s *Subscriber) Detach() {
	s.cancelOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Done is closed when the entry has been finalized. Transport handlers block
// on it to keep the connection goroutine alive while the stream is open.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// markDone signals finalization. Idempotent.
func (s *Subscriber) markDone() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
