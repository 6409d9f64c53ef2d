package sse

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/ssekit/runtime"
	"github.com/kbukum/ssekit/util"
)

// Handler returns a gin handler that admits the request as a subscriber of
// src and holds the connection open until the entry is torn down by any of
// the close paths (client disconnect, server removal, drain).
//
// The correlation id is taken from the "id" query parameter, then the
// Last-Event-ID header, then generated.
func Handler(src *Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := util.Coalesce(c.Query("id"), c.GetHeader("Last-Event-ID"))
		if id == "" {
			id = uuid.NewString()
		}

		conn := NewHTTPConn(c.Writer, c.Request)
		item := &runtime.Item{
			ID:    id,
			Topic: c.Query("topic"),
			Conn:  conn,
		}
		if payload := c.Query("payload"); payload != "" {
			item.Payload = payload
		}

		sub, err := src.Open(c.Request.Context(), item)
		if err != nil {
			// Headers may already be on the wire; the stream is closed and
			// there is nothing more to send.
			return
		}

		// Keep the response goroutine alive while the stream is open.
		<-sub.Done()
	}
}
