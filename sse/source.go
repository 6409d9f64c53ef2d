package sse

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/ssekit/errors"
	"github.com/kbukum/ssekit/logger"
	"github.com/kbukum/ssekit/runtime"
)

// Config holds per-instance settings for an event source.
type Config struct {
	// Name identifies the instance in logs and notifications.
	Name string `yaml:"name" mapstructure:"name" validate:"required,max=64,excludesall=0x0A0x0D"`
	// Event, when set, overrides the topic of every broadcast item. Carriage
	// returns and newlines would corrupt the wire frame.
	Event string `yaml:"event" mapstructure:"event" validate:"omitempty,max=190,excludesall=0x0A0x0D"`
	// Data, when set, overrides the payload of every broadcast item.
	Data any `yaml:"data" mapstructure:"data"`
}

// Source is one event source instance: it owns a Registry and drives every
// tracked connection from admission through teardown.
//
// Inbound work items are expected to arrive serialized (one logical worker
// per instance); transport disconnect callbacks fire asynchronously and may
// race in-flight operations for the same connection. The Registry's mutex is
// the safety net for that race, so every Source method is also safe for
// concurrent use.
type Source struct {
	cfg      Config
	registry *Registry
	log      *logger.Logger
	notifier runtime.Notifier
	status   StatusSink
	metrics  *Metrics

	busMu  sync.Mutex
	busSub *runtime.Subscription
}

// Option configures a Source.
type Option func(*Source)

// WithNotifier sets the outbound connect/disconnect notification sink.
func WithNotifier(n runtime.Notifier) Option {
	return func(s *Source) { s.notifier = n }
}

// WithStatusSink sets the status indicator sink.
func WithStatusSink(sink StatusSink) Option {
	return func(s *Source) { s.status = sink }
}

// WithLogger sets the instance logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Source) { s.log = log }
}

// WithMetrics attaches metric instruments to the source.
func WithMetrics(m *Metrics) Option {
	return func(s *Source) { s.metrics = m }
}

// NewSource creates an event source instance with an empty registry.
func NewSource(cfg Config, opts ...Option) *Source {
	s := &Source{
		cfg:      cfg,
		registry: NewRegistry(),
		notifier: runtime.NopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.WithComponent("sse").WithFields(map[string]interface{}{
			logger.FieldSource: cfg.Name,
		})
	}
	if s.status == nil {
		s.status = &logStatusSink{log: s.log}
	}
	return s
}

// Name returns the instance name.
func (s *Source) Name() string { return s.cfg.Name }

// SubscriberCount returns the current registry size.
func (s *Source) SubscriberCount() int { return s.registry.Len() }

// SubscriberIDs returns the tracked correlation ids in insertion order.
func (s *Source) SubscriberIDs() []string { return s.registry.IDs() }

// HandleItem is the host dispatcher entry point. Items carrying a
// connection register a subscriber; items without one broadcast. The item
// is always completed and no error or panic ever propagates to the caller.
func (s *Source) HandleItem(ctx context.Context, item *runtime.Item) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in work item handler: %v", r)
			s.log.Error("work item failed", logger.ErrorFields("handle_item", err))
			s.publishStatus(err)
			item.Complete(err)
		}
	}()

	if item.Conn == nil {
		s.Broadcast(ctx, item)
		item.Complete(nil)
		return
	}

	_, err := s.Open(ctx, item)
	if err != nil && errors.AsAppError(err) != nil &&
		errors.AsAppError(err).Code == errors.ErrCodeAlreadyExists {
		// Duplicate admission attempt (retried work item): quiet no-op.
		err = nil
	}
	item.Complete(err)
}

// Open drives a connection attempt from Pending to Open: response headers,
// open frame, disconnect watch, admission, status, connect notification.
//
// Failures before any registry mutation (header or open-frame write) are
// returned to the caller; everything after admission is handled internally.
// The returned subscriber's Done channel closes when the connection is torn
// down; transport handlers block on it.
func (s *Source) Open(ctx context.Context, item *runtime.Item) (*Subscriber, error) {
	conn := item.Conn
	if conn == nil {
		return nil, errors.InvalidInput("conn", "registration item carries no connection")
	}

	id := item.ID
	if id == "" {
		id = uuid.NewString()
	}

	if err := conn.WriteHeaders(http.StatusOK, map[string]string{
		"Content-Type":  "text/event-stream",
		"Cache-Control": "no-cache",
		"Connection":    "keep-alive",
	}); err != nil {
		s.publishStatus(err)
		return nil, errors.StreamWrite(id, err)
	}

	payload := item.Payload
	if payload == nil {
		payload = MessageOpened
	}
	data, err := EncodeData(payload)
	if err != nil {
		s.publishStatus(err)
		return nil, errors.InvalidInput("payload", err.Error())
	}

	frame := Frame{Event: EventOpen, Data: data, ID: id}
	if _, err := frame.WriteTo(conn); err != nil {
		s.publishStatus(err)
		return nil, errors.StreamWrite(id, err)
	}
	if err := conn.Flush(); err != nil {
		s.publishStatus(err)
		return nil, errors.StreamWrite(id, err)
	}

	sub := NewSubscriber(id, conn, conn.RemoteAddr())
	sub.SetCancel(conn.OnClose(func() {
		s.closeByClient(id)
	}))

	if !s.registry.Admit(sub) {
		// Same id already tracked, or the registry was drained for
		// shutdown. Drop this attempt without a second connect
		// notification or status change.
		sub.Detach()
		if err := conn.Close(); err != nil {
			s.log.Warn("stream close failed", logger.ErrorFields("open", err))
		}
		sub.markDone()
		s.log.Debug("admission dropped", map[string]interface{}{
			logger.FieldSubscriberID: id,
		})
		return nil, errors.AlreadyExists("subscriber").WithDetail("id", id)
	}

	count := s.registry.Len()
	s.publishStatus(nil)
	if s.metrics != nil {
		s.metrics.RecordConnect(ctx, s.cfg.Name)
	}
	s.notifier.Send(runtime.Notification{
		Event:       runtime.NotifyConnect,
		Subscribers: count,
		IP:          sub.Addr,
	})
	s.log.Info("subscriber connected", map[string]interface{}{
		logger.FieldSubscriberID: id,
		logger.FieldRemoteAddr:   sub.Addr,
		logger.FieldSubscribers:  count,
	})
	return sub, nil
}

// closeByClient handles the transport's disconnect notification. If the
// server-removal or drain path already finalized the entry, removal misses
// and this is a no-op.
func (s *Source) closeByClient(id string) {
	sub, ok := s.registry.RemoveByID(id)
	if !ok {
		return
	}

	s.finalize(sub, ClosedByClient)
	count := s.registry.Len()
	s.publishStatus(nil)
	if s.metrics != nil {
		s.metrics.RecordDisconnect(context.Background(), s.cfg.Name, 1)
	}
	s.notifier.Send(runtime.Notification{
		Event:       runtime.NotifyDisconnect,
		Subscribers: count,
		IP:          sub.Addr,
	})
	s.log.Info("subscriber disconnected", map[string]interface{}{
		logger.FieldSubscriberID: id,
		logger.FieldRemoteAddr:   sub.Addr,
		logger.FieldSubscribers:  count,
	})
}

// Unregister removes a subscriber at the server's request. A subsequent
// client-disconnect callback for the same connection finds the entry gone
// and no-ops. Unknown ids are reported but change no state.
func (s *Source) Unregister(id string) error {
	sub, ok := s.registry.RemoveByID(id)
	if !ok {
		s.log.Warn("unregister for unknown subscriber", map[string]interface{}{
			logger.FieldSubscriberID: id,
		})
		return errors.NotFound("subscriber", id)
	}

	s.finalize(sub, ClosedByServer)
	count := s.registry.Len()
	s.publishStatus(nil)
	if s.metrics != nil {
		s.metrics.RecordDisconnect(context.Background(), s.cfg.Name, 1)
	}
	s.notifier.Send(runtime.Notification{
		Event:       runtime.NotifyDisconnect,
		Subscribers: count,
		IP:          sub.Addr,
	})
	s.log.Info("subscriber removed by server", map[string]interface{}{
		logger.FieldSubscriberID: id,
		logger.FieldSubscribers:  count,
	})
	return nil
}

// Drain force-closes every tracked connection in one atomic registry drain.
// Used for the host-wide redeploy signal; the registry keeps accepting new
// admissions afterwards.
func (s *Source) Drain(reason string) int {
	return s.drainEntries(s.registry.DrainAll(), reason)
}

// Shutdown drains the registry and closes it for good: admissions racing
// the drain are dropped.
func (s *Source) Shutdown(reason string) int {
	return s.drainEntries(s.registry.Close(), reason)
}

func (s *Source) drainEntries(subs []*Subscriber, reason string) int {
	for _, sub := range subs {
		// Deregister the watch before writing so the disconnect callback
		// cannot re-enter removal for an entry that is already gone.
		sub.Detach()
		s.finalize(sub, reason)
	}
	if len(subs) > 0 {
		if s.metrics != nil {
			s.metrics.RecordDisconnect(context.Background(), s.cfg.Name, len(subs))
		}
		s.log.Info("registry drained", map[string]interface{}{
			"reason":                reason,
			logger.FieldSubscribers: len(subs),
		})
	}
	s.publishStatus(nil)
	return len(subs)
}

// finalize performs the teardown side effects for an entry that has already
// been removed from the registry: close frame, watch deregistration, stream
// termination. Every failure is a logged warning; cleanup always proceeds.
func (s *Source) finalize(sub *Subscriber, reason string) {
	frame := Frame{Event: EventClose, Data: reason, ID: sub.ID}
	if _, err := frame.WriteTo(sub.stream); err != nil {
		s.log.Warn("close frame write failed", map[string]interface{}{
			logger.FieldSubscriberID: sub.ID,
			logger.FieldError:        err.Error(),
		})
	} else if err := sub.stream.Flush(); err != nil {
		s.log.Warn("close frame flush failed", map[string]interface{}{
			logger.FieldSubscriberID: sub.ID,
			logger.FieldError:        err.Error(),
		})
	}

	sub.Detach()
	if err := sub.stream.Close(); err != nil {
		s.log.Warn("stream close failed", map[string]interface{}{
			logger.FieldSubscriberID: sub.ID,
			logger.FieldError:        err.Error(),
		})
	}
	sub.markDone()
}

// AttachBus subscribes the source to the host-wide redeploy signal. Any
// previous subscription is released first.
func (s *Source) AttachBus(bus *runtime.Bus) {
	s.busMu.Lock()
	defer s.busMu.Unlock()

	if s.busSub != nil {
		s.busSub.Unsubscribe()
	}
	s.busSub = bus.Subscribe(runtime.TopicRedeploy, func(any) {
		s.Drain(ClosedCollection)
	})
}

// DetachBus releases the redeploy subscription. Idempotent; must be called
// when the instance shuts down so no handler dangles across restarts.
func (s *Source) DetachBus() {
	s.busMu.Lock()
	defer s.busMu.Unlock()

	if s.busSub != nil {
		s.busSub.Unsubscribe()
		s.busSub = nil
	}
}

func (s *Source) publishStatus(err error) {
	s.status.Publish(statusFor(s.registry.Len(), err))
}
