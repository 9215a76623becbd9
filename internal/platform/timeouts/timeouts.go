// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// FeedWrite caps a single announcement write to a feed subscriber so one
// slow table display cannot stall the others.
const FeedWrite = 2 * time.Second

// StoreOp caps a single session store operation issued from a tool call.
const StoreOp = 3 * time.Second
