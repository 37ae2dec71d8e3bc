package events

import (
	"context"
	"sync"

	"kitchen/internal/core/domain/model/order"
)

// Recorder keeps every published event in memory. Err, when set, is
// returned from Publish after recording.
type Recorder struct {
	mu     sync.Mutex
	events []order.Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, events ...order.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return r.Err
}

func (r *Recorder) Events() []order.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]order.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []order.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]order.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
