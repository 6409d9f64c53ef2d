package runtime

import "github.com/kbukum/ssekit/logger"

// Notification event names.
const (
	NotifyConnect    = "connect"
	NotifyDisconnect = "disconnect"
)

// Notification is emitted downstream when a subscriber connects or
// disconnects. Broadcast passes emit no notification.
type Notification struct {
	Event       string `json:"event"`
	Subscribers int    `json:"subscribers"`
	IP          string `json:"ip"`
}

// Notifier is a one-way outbound channel to the host runtime. Delivery is
// fire-and-forget: no acknowledgment, no backpressure.
type Notifier interface {
	Send(n Notification)
}

// ChanNotifier delivers notifications over a buffered channel, dropping
// when the consumer falls behind.
type ChanNotifier struct {
	ch chan Notification
}

// NewChanNotifier creates a ChanNotifier with the given buffer size.
func NewChanNotifier(buffer int) *ChanNotifier {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChanNotifier{ch: make(chan Notification, buffer)}
}

// Send enqueues the notification, dropping it if the buffer is full.
func (c *ChanNotifier) Send(n Notification) {
	select {
	case c.ch <- n:
	default:
		logger.Warn("notification buffer full, dropping", map[string]interface{}{
			"event": n.Event,
		})
	}
}

// Events returns the receive side of the notifier.
func (c *ChanNotifier) Events() <-chan Notification {
	return c.ch
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Send(Notification) {}
