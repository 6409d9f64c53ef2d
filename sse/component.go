package sse

import (
	"context"
	"fmt"

	"github.com/kbukum/ssekit/component"
	"github.com/kbukum/ssekit/runtime"
)

// Component wraps a Source as a lifecycle-managed component. Start wires
// the host-wide redeploy signal; Stop releases the subscription and drains
// every tracked connection.
type Component struct {
	source *Source
	bus    *runtime.Bus
}

// ensure Component satisfies component.Component and Describable.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component for the given source. The bus may be nil
// when the host has no redeploy signal.
func NewComponent(source *Source, bus *runtime.Bus) *Component {
	return &Component{source: source, bus: bus}
}

// Source returns the underlying event source.
func (c *Component) Source() *Source { return c.source }

// Name returns the component name.
func (c *Component) Name() string { return "sse-" + c.source.Name() }

// Start subscribes the source to the redeploy signal.
func (c *Component) Start(_ context.Context) error {
	if c.bus != nil {
		c.source.AttachBus(c.bus)
	}
	return nil
}

// Stop unsubscribes from the redeploy signal and force-closes every
// tracked connection.
func (c *Component) Stop(_ context.Context) error {
	c.source.DetachBus()
	c.source.Shutdown(ClosedNode)
	return nil
}

// Health reports the subscriber count.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.source.SubscriberCount()),
	}
}

// Describe returns infrastructure summary info for the startup display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "SSE Source",
		Type:    "sse",
		Details: fmt.Sprintf("Source: %s", c.source.Name()),
	}
}
