// Package trace assigns ids to tool calls so every log line of one call
// can be tied together, and keeps simple call metrics.
package trace

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ContextKey type for context keys
type ContextKey string

const (
	// CallIDKey is the context key for the tool-call id
	CallIDKey ContextKey = "call_id"
)

// Metrics tracks tool-call metrics
type Metrics struct {
	TotalCalls     int64
	LastDurationMs int64
}

// Recorder accumulates metrics across tool calls.
type Recorder struct {
	metrics *Metrics
}

// NewRecorder creates a new call recorder
func NewRecorder() *Recorder {
	return &Recorder{metrics: &Metrics{}}
}

// Observe records one completed call.
func (r *Recorder) Observe(durationMs int64) {
	atomic.AddInt64(&r.metrics.TotalCalls, 1)
	atomic.StoreInt64(&r.metrics.LastDurationMs, durationMs)
}

// GetMetrics returns current metrics
func (r *Recorder) GetMetrics() Metrics {
	return Metrics{
		TotalCalls:     atomic.LoadInt64(&r.metrics.TotalCalls),
		LastDurationMs: atomic.LoadInt64(&r.metrics.LastDurationMs),
	}
}

// NewCallID creates a unique id for one tool call.
func NewCallID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("call_%d", time.Now().UnixNano())
	}
	return "call_" + id.String()
}

// WithCallID returns a context carrying the call id.
func WithCallID(ctx context.Context, callID string) context.Context {
	return context.WithValue(ctx, CallIDKey, callID)
}

// GetCallID extracts the call id from context
func GetCallID(ctx context.Context) string {
	if id, ok := ctx.Value(CallIDKey).(string); ok {
		return id
	}
	return ""
}
