package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Frame is one unit of SSE wire output. It is constructed per broadcast or
// lifecycle transition and not retained beyond the write.
type Frame struct {
	// Event is the event name.
	Event string
	// Data is the payload, already serialized to a string.
	Data string
	// ID is the correlation identifier of the target subscriber.
	ID string
}

// Bytes renders the frame in SSE wire format:
//
//	event: <name>
//	data: <string-or-JSON>
//	id: <correlationId>
//	<blank line>
func (f Frame) Bytes() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "event: %s\n", f.Event)
	fmt.Fprintf(&b, "data: %s\n", f.Data)
	fmt.Fprintf(&b, "id: %s\n\n", f.ID)
	return b.Bytes()
}

// WriteTo writes the rendered frame to w.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// EncodeData serializes a payload for the data line: strings pass through
// unchanged, anything else is JSON-encoded.
func EncodeData(payload any) (string, error) {
	switch v := payload.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encoding payload: %w", err)
		}
		return string(data), nil
	}
}
