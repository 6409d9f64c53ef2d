// Package sse maintains a broadcast channel over Server-Sent Events.
//
// Many clients hold long-lived HTTP connections against one event source;
// a producer pushes named events that reach every connected client, and
// dead clients are detected and reclaimed.
//
// # Architecture
//
//   - Registry: the mutable set of active subscribers, one mutex domain
//   - Source: drives each connection from admission to teardown and fans
//     broadcasts out over a registry snapshot
//   - Frame: the wire codec (event/data/id lines plus blank terminator)
//
// # Usage
//
//	src := sse.NewSource(sse.Config{Name: "ticker"})
//	router.GET("/events", sse.Handler(src))
//	src.Broadcast(ctx, &runtime.Item{Topic: "tick", Payload: data})
package sse
