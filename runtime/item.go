package runtime

import "sync"

// Item is one inbound unit of work dispatched to an event source.
//
// An item carrying a Conn triggers subscriber registration; an item without
// one triggers a broadcast using Topic and Payload.
type Item struct {
	// ID is an opaque correlation identifier, unique per connection attempt.
	ID string

	// Topic is the event name carried by the item, used when the source has
	// no configured event name.
	Topic string

	// Payload is the event data. Strings pass through to the wire unchanged;
	// anything else is JSON-encoded.
	Payload any

	// Conn is the transport connection for registration items, nil for
	// broadcast items.
	Conn Conn

	// OnComplete, when set, is invoked exactly once when the source has
	// finished processing the item, with any operation error. No item is
	// left unacknowledged.
	OnComplete func(err error)

	once sync.Once
}

// Complete acknowledges the item. Safe to call multiple times; only the
// first call invokes OnComplete.
func (i *Item) Complete(err error) {
	i.once.Do(func() {
		if i.OnComplete != nil {
			i.OnComplete(err)
		}
	})
}
