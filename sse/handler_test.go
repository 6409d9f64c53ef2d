package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/ssekit/runtime"
)

func newStreamServer(t *testing.T, src *Source) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/events", Handler(src))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// readFrame consumes one SSE frame (through its trailing blank line).
func readFrame(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("stream read failed: %v", err)
		}
		b.WriteString(line)
		if line == "\n" {
			return b.String()
		}
	}
}

func waitForCount(t *testing.T, src *Source, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for src.SubscriberCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count never reached %d (have %d)", want, src.SubscriberCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandler_StreamLifecycle(t *testing.T) {
	src, _, _ := newTestSource(t, Config{Name: "ticker"})
	srv := newStreamServer(t, src)

	resp, err := http.Get(srv.URL + "/events?id=m1")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected event-stream content type, got %q", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected no-cache, got %q", cc)
	}

	reader := bufio.NewReader(resp.Body)
	open := readFrame(t, reader)
	want := "event: open\ndata: Connection opened\nid: m1\n\n"
	if open != want {
		t.Errorf("expected open frame %q, got %q", want, open)
	}
	waitForCount(t, src, 1)

	src.Broadcast(context.Background(), &runtime.Item{Topic: "tick", Payload: map[string]int{"n": 3}})
	frame := readFrame(t, reader)
	if frame != "event: tick\ndata: {\"n\":3}\nid: m1\n\n" {
		t.Errorf("unexpected broadcast frame %q", frame)
	}

	if err := src.Unregister("m1"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	frame = readFrame(t, reader)
	if frame != "event: close\ndata: closed by the server\nid: m1\n\n" {
		t.Errorf("unexpected close frame %q", frame)
	}

	// The handler goroutine returns once the entry is torn down, ending
	// the response body.
	if _, err := reader.ReadString('\n'); err == nil {
		t.Error("expected the stream to end after the close frame")
	}
	waitForCount(t, src, 0)
}

func TestHandler_ClientDisconnectRemovesSubscriber(t *testing.T) {
	src, notifier, _ := newTestSource(t, Config{Name: "ticker"})
	srv := newStreamServer(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?id=m1", nil)
	if err != nil {
		t.Fatalf("request build failed: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readFrame(t, reader)
	waitForCount(t, src, 1)

	cancel()
	waitForCount(t, src, 0)

	deadline := time.Now().Add(2 * time.Second)
	for len(notifier.all()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("disconnect notification never arrived")
		}
		time.Sleep(5 * time.Millisecond)
	}
	events := notifier.all()
	if events[len(events)-1].Event != runtime.NotifyDisconnect {
		t.Errorf("expected disconnect notification, got %+v", events)
	}
}

func TestHandler_LastEventIDHeader(t *testing.T) {
	src, _, _ := newTestSource(t, Config{Name: "ticker"})
	srv := newStreamServer(t, src)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/events", nil)
	if err != nil {
		t.Fatalf("request build failed: %v", err)
	}
	req.Header.Set("Last-Event-ID", "resumed-7")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	frame := readFrame(t, reader)
	if !strings.Contains(frame, "id: resumed-7\n") {
		t.Errorf("expected the header id to be reused, got %q", frame)
	}
	waitForCount(t, src, 1)

	src.Shutdown(ClosedNode)
	waitForCount(t, src, 0)
}

func TestHandler_GeneratesID(t *testing.T) {
	src, _, _ := newTestSource(t, Config{Name: "ticker"})
	srv := newStreamServer(t, src)

	resp, err := http.Get(srv.URL + "/events")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	frame := readFrame(t, reader)
	if !strings.Contains(frame, "id: ") {
		t.Errorf("expected a generated id, got %q", frame)
	}
	waitForCount(t, src, 1)

	ids := src.SubscriberIDs()
	if len(ids) != 1 || ids[0] == "" {
		t.Errorf("expected one generated subscriber id, got %v", ids)
	}

	src.Shutdown(ClosedNode)
}
