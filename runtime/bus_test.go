package runtime

import (
	"sync"
	"testing"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()

	var got []any
	sub := bus.Subscribe(TopicRedeploy, func(payload any) {
		got = append(got, payload)
	})
	defer sub.Unsubscribe()

	bus.Publish(TopicRedeploy, "now")

	if len(got) != 1 || got[0] != "now" {
		t.Errorf("expected one delivery of 'now', got %v", got)
	}
}

func TestBus_PublishUnknownTopic(t *testing.T) {
	bus := NewBus()
	// Must not panic with no subscribers.
	bus.Publish("nothing-listens", nil)
}

func TestBus_Unsubscribe_StopsDelivery(t *testing.T) {
	bus := NewBus()

	calls := 0
	sub := bus.Subscribe(TopicRedeploy, func(any) { calls++ })

	bus.Publish(TopicRedeploy, nil)
	sub.Unsubscribe()
	bus.Publish(TopicRedeploy, nil)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if bus.SubscriberCount(TopicRedeploy) != 0 {
		t.Errorf("expected no subscribers left, got %d", bus.SubscriberCount(TopicRedeploy))
	}
}

func TestBus_Unsubscribe_Idempotent(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicRedeploy, func(any) {})

	sub.Unsubscribe()
	sub.Unsubscribe() // must be a no-op

	if bus.SubscriberCount(TopicRedeploy) != 0 {
		t.Error("expected no subscribers after double unsubscribe")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	seen := make(map[int]int)
	for i := 0; i < 3; i++ {
		i := i
		bus.Subscribe(TopicRedeploy, func(any) {
			mu.Lock()
			seen[i]++
			mu.Unlock()
		})
	}

	bus.Publish(TopicRedeploy, nil)

	for i := 0; i < 3; i++ {
		if seen[i] != 1 {
			t.Errorf("subscriber %d: expected 1 delivery, got %d", i, seen[i])
		}
	}
}

func TestBus_ConcurrentSubscribePublish(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(TopicRedeploy, func(any) {})
			sub.Unsubscribe()
		}()
		go func() {
			defer wg.Done()
			bus.Publish(TopicRedeploy, nil)
		}()
	}
	wg.Wait()
}

func TestItem_Complete_Once(t *testing.T) {
	calls := 0
	item := &Item{ID: "m1", OnComplete: func(err error) { calls++ }}

	item.Complete(nil)
	item.Complete(nil)

	if calls != 1 {
		t.Errorf("expected OnComplete once, got %d", calls)
	}
}

func TestItem_Complete_NoCallback(t *testing.T) {
	item := &Item{ID: "m1"}
	// Must not panic without a callback.
	item.Complete(nil)
}

func TestChanNotifier_DropsWhenFull(t *testing.T) {
	n := NewChanNotifier(1)

	n.Send(Notification{Event: NotifyConnect, Subscribers: 1})
	n.Send(Notification{Event: NotifyConnect, Subscribers: 2}) // dropped

	select {
	case got := <-n.Events():
		if got.Subscribers != 1 {
			t.Errorf("expected first notification, got %+v", got)
		}
	default:
		t.Fatal("expected one buffered notification")
	}

	select {
	case got := <-n.Events():
		t.Errorf("expected second notification dropped, got %+v", got)
	default:
	}
}
