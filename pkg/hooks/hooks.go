/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package hooks implements the generation hook pipeline: a registry of
// (event, priority, handler) triples dispatched in ascending priority
// order at defined generation phases. The pipeline is agnostic to what
// handlers do with the context; it guarantees ordering and
// short-circuit-on-failure, nothing more.
package hooks

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Event names a generation phase.
type Event string

const (
	// EventAfterResolve fires once templates are resolved against the
	// cluster and substitution values are final but for external
	// secrets. Handlers typically inject provider-resolved values here.
	EventAfterResolve Event = "after-resolve"

	// EventBeforeWrite fires once manifests are fully generated.
	// Handlers typically attach auxiliary files here.
	EventBeforeWrite Event = "before-write"
)

// Handler observes or mutates the hook context at a phase. Returning an
// error aborts the remaining chain for the event.
type Handler func(ctx context.Context, event Event, hc *Context) error

type registration struct {
	event    Event
	priority int
	seq      int
	handler  Handler
}

// Pipeline is a priority-ordered hook dispatcher. The zero value is not
// usable; use NewPipeline.
type Pipeline struct {
	mu      sync.RWMutex
	entries []registration
	seq     int
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Register adds a handler for an event. Handlers run in ascending
// priority order; ties run in registration order.
func (p *Pipeline) Register(event Event, priority int, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, registration{
		event:    event,
		priority: priority,
		seq:      p.seq,
		handler:  handler,
	})
	p.seq++
}

// Count returns the number of handlers registered for the event.
func (p *Pipeline) Count(event Event) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, r := range p.entries {
		if r.event == event {
			n++
		}
	}
	return n
}

// Dispatch runs every handler registered for the event against the
// context, in order. The first handler error aborts the chain and is
// returned to the caller. Handlers run sequentially, never concurrently
// with each other.
func (p *Pipeline) Dispatch(ctx context.Context, event Event, hc *Context) error {
	p.mu.RLock()
	matched := make([]registration, 0, len(p.entries))
	for _, r := range p.entries {
		if r.event == event {
			matched = append(matched, r)
		}
	}
	p.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].priority != matched[j].priority {
			return matched[i].priority < matched[j].priority
		}
		return matched[i].seq < matched[j].seq
	})

	for _, r := range matched {
		slog.Debug("dispatching hook", "event", event, "priority", r.priority)
		if err := r.handler(ctx, event, hc); err != nil {
			return err
		}
	}
	return nil
}
