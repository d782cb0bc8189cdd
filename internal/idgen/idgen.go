// Package idgen provides the two identifier generators the client
// executor logs by: a process-wide monotonic request counter, and a
// per-Client-instance correlation id.
package idgen

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// counter is the global monotonic request-id counter (§5: "a global
// monotonic request-id counter (atomic increment)").
var counter uint64

// NextRequestID atomically allocates the next request id, starting at 1.
func NextRequestID() uint64 {
	return atomic.AddUint64(&counter, 1)
}

// NewClientID returns a fresh, process-local correlation id for one
// Client instance, tagging every log line that instance emits so logs
// from multiple concurrently-constructed clients can be told apart.
func NewClientID() string {
	return uuid.NewString()
}
