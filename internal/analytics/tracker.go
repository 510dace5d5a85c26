// Package analytics sends product usage events to an optional external sink.
package analytics

import "context"

// Tracker records product analytics events. Implementations must be
// fire-and-forget safe: a failed track never propagates to the caller.
type Tracker interface {
	Track(ctx context.Context, event string, props map[string]interface{})
}

// NoOpTracker discards every event.
type NoOpTracker struct{}

func (NoOpTracker) Track(ctx context.Context, event string, props map[string]interface{}) {}
