// Package component defines the core interfaces for lifecycle-managed
// infrastructure services in ssekit.
//
// Components represent services that require startup, shutdown, and health
// monitoring. They are registered with a Registry for automatic lifecycle
// management: started in registration order, stopped in reverse order.
package component
