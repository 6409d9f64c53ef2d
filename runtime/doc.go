// Package runtime defines the contracts between an ssekit event source and
// its hosting runtime: inbound work items, the transport connection handed
// to the core, outbound connect/disconnect notifications, and the
// process-wide signal bus used for redeploy/shutdown.
//
// The core never depends on a concrete host; it sees only these interfaces.
package runtime
