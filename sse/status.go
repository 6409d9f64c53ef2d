package sse

import (
	"fmt"

	"github.com/kbukum/ssekit/logger"
)

// Status indicator values.
const (
	FillGreen = "green"
	FillRed   = "red"
	ShapeDot  = "dot"
)

// Status is the observable health indicator of an event source: a pure
// projection of registry size and last operation outcome.
type Status struct {
	Fill  string `json:"fill"`
	Shape string `json:"shape"`
	Text  string `json:"text"`
}

// StatusSink receives status updates. Publishing has no side effects on the
// source.
type StatusSink interface {
	Publish(st Status)
}

// StatusFunc adapts a function to the StatusSink interface.
type StatusFunc func(st Status)

func (f StatusFunc) Publish(st Status) { f(st) }

// logStatusSink is the default sink; it logs status transitions at debug.
type logStatusSink struct {
	log *logger.Logger
}

func (s *logStatusSink) Publish(st Status) {
	s.log.Debug("status", map[string]interface{}{
		"fill": st.Fill,
		"text": st.Text,
	})
}

// statusFor derives the indicator from subscriber count and last outcome.
func statusFor(subscribers int, err error) Status {
	fill := FillGreen
	if err != nil {
		fill = FillRed
	}
	return Status{
		Fill:  fill,
		Shape: ShapeDot,
		Text:  fmt.Sprintf("%d client(s) connected", subscribers),
	}
}
