package sse

import (
	"context"

	"github.com/kbukum/ssekit/logger"
	"github.com/kbukum/ssekit/observability"
	"github.com/kbukum/ssekit/runtime"
)

// Broadcast writes one event to every current subscriber and evicts the
// ones whose streams fail. Writes happen over a registry snapshot, outside
// the lock; the reconcile step afterwards removes all failed entries in one
// lock acquisition. This is the only self-healing mechanism for half-dead
// connections whose disconnect the transport never signaled.
//
// A broadcast pass emits no connect/disconnect notification.
func (s *Source) Broadcast(ctx context.Context, item *runtime.Item) {
	ctx, span := observability.StartSpan(ctx, "sse.broadcast")
	defer span.End()

	event := s.cfg.Event
	if event == "" {
		event = item.Topic
	}
	if event == "" {
		event = EventMessage
	}

	payload := s.cfg.Data
	if payload == nil {
		payload = item.Payload
	}
	data, err := EncodeData(payload)
	if err != nil {
		s.log.Error("broadcast payload encode failed", logger.ErrorFields("broadcast", err))
		observability.SetSpanError(ctx, err)
		s.publishStatus(err)
		return
	}

	snapshot := s.registry.Snapshot()
	var failed []string
	for _, sub := range snapshot {
		frame := Frame{Event: event, Data: data, ID: sub.ID}
		if _, err := frame.WriteTo(sub.stream); err != nil {
			s.evictionWarning(sub, err)
			failed = append(failed, sub.ID)
			continue
		}
		if err := sub.stream.Flush(); err != nil {
			s.evictionWarning(sub, err)
			failed = append(failed, sub.ID)
		}
	}

	if len(failed) > 0 {
		evicted := s.registry.Evict(failed)
		for _, sub := range evicted {
			sub.Detach()
			sub.markDone()
		}
		if s.metrics != nil {
			s.metrics.RecordDisconnect(ctx, s.cfg.Name, len(evicted))
		}
		s.publishStatus(nil)
	}

	if s.metrics != nil {
		s.metrics.RecordBroadcast(ctx, s.cfg.Name, event, len(snapshot)-len(failed), len(failed))
	}
	s.log.Debug("broadcast pass", map[string]interface{}{
		logger.FieldEvent:       event,
		logger.FieldSubscribers: len(snapshot) - len(failed),
		"evicted":               len(failed),
	})
}

// evictionWarning logs a failed subscriber write and attempts to end the
// stream; a close failure is swallowed too. A failed write is permanent
// subscriber loss within the pass, no retry.
func (s *Source) evictionWarning(sub *Subscriber, err error) {
	s.log.Warn("subscriber write failed, evicting", map[string]interface{}{
		logger.FieldSubscriberID: sub.ID,
		logger.FieldError:        err.Error(),
	})
	if cerr := sub.stream.Close(); cerr != nil {
		s.log.Warn("stream close failed", map[string]interface{}{
			logger.FieldSubscriberID: sub.ID,
			logger.FieldError:        cerr.Error(),
		})
	}
}
