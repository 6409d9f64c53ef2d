package sse

// Event names written by the lifecycle controller. Broadcast frames use the
// source's configured event name, the item topic, or EventMessage.
const (
	// EventOpen is sent once when a subscriber connection is admitted.
	EventOpen = "open"

	// EventClose is sent when a subscriber connection is being torn down.
	EventClose = "close"

	// EventMessage is the default broadcast event name.
	EventMessage = "message"
)

// Close-frame payloads identifying which path tore the connection down.
const (
	// MessageOpened is the default open-frame payload.
	MessageOpened = "Connection opened"

	// ClosedByClient marks a teardown triggered by the transport's
	// disconnect notification.
	ClosedByClient = "closed by the client"

	// ClosedByServer marks an explicit unregister request.
	ClosedByServer = "closed by the server"

	// ClosedNode marks the event source instance shutting down.
	ClosedNode = "node closed"

	// ClosedCollection marks a host-wide redeploy drain.
	ClosedCollection = "collection closed"
)
