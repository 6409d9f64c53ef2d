// Package server provides the HTTP host for event stream endpoints: a Gin
// engine served over h2c with the standard middleware stack (recovery,
// request id, CORS, request logging) and a component-registry-backed health
// endpoint.
//
// The server keeps no write timeout by default because event streams are
// long-lived responses; per-request deadlines are managed by the stream
// connections themselves.
package server
