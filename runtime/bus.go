package runtime

import (
	"sync"
)

// Well-known bus topics.
const (
	// TopicRedeploy is published when the host redeploys or shuts down.
	// Event sources drain all subscribers on receipt.
	TopicRedeploy = "redeploy"
)

// Handler receives a published payload.
type Handler func(payload any)

// Bus is a process-wide publish/subscribe mechanism for host-level signals.
// Handlers are invoked synchronously, outside the bus lock, in subscription
// order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]*Subscription
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]*Subscription)}
}

// Subscription is a handle to one registered handler. Unsubscribe through
// the handle; never leave a subscription dangling across instance restarts.
type Subscription struct {
	bus   *Bus
	topic string
	id    uint64
	fn    Handler
	once  sync.Once
}

// Subscribe registers fn for the topic and returns its handle.
func (b *Bus) Subscribe(topic string, fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{bus: b, topic: topic, id: b.nextID, fn: fn}
	b.subs[topic] = append(b.subs[topic], sub)
	return sub
}

// Unsubscribe removes the handler. Safe to call multiple times.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()

		list := s.bus.subs[s.topic]
		for i, sub := range list {
			if sub.id == s.id {
				s.bus.subs[s.topic] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(s.bus.subs[s.topic]) == 0 {
			delete(s.bus.subs, s.topic)
		}
	})
}

// Publish delivers payload to every handler subscribed to the topic.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	list := b.subs[topic]
	handlers := make([]Handler, len(list))
	for i, sub := range list {
		handlers[i] = sub.fn
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(payload)
	}
}

// SubscriberCount returns the number of handlers for a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
