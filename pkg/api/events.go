package api

import (
	"sync"

	"github.com/google/uuid"
)

// ResourceKind names a resource family for invalidation events
type ResourceKind string

const (
	ResourceFarmers    ResourceKind = "farmers"
	ResourceAttendance ResourceKind = "attendance"
	ResourceDiscipline ResourceKind = "discipline"
	ResourcePayments   ResourceKind = "payments"
	ResourceUsers      ResourceKind = "users"
	ResourceRefData    ResourceKind = "refdata"
)

// Op names the mutation that happened
type Op string

const (
	OpCreated  Op = "created"
	OpUpdated  Op = "updated"
	OpDeleted  Op = "deleted"
	OpVerified Op = "verified"
	OpResolved Op = "resolved"
)

// Event announces a successful mutation of a resource family. Views
// subscribed to the family refetch their lists; derived aggregates are
// recomputed from the fresh lists, never patched in place.
type Event struct {
	ID       string
	Resource ResourceKind
	Op       Op
}

// Invalidator is the process-wide cache-invalidation signal. Services
// notify it after every successful mutation; view loaders subscribe to
// the families they render.
type Invalidator struct {
	mu      sync.Mutex
	nextSub int
	subs    map[int]func(Event)
}

// NewInvalidator creates an empty invalidation signal
func NewInvalidator() *Invalidator {
	return &Invalidator{subs: make(map[int]func(Event))}
}

// Subscribe registers fn for every event. The returned function
// unsubscribes.
func (i *Invalidator) Subscribe(fn func(Event)) func() {
	i.mu.Lock()
	id := i.nextSub
	i.nextSub++
	i.subs[id] = fn
	i.mu.Unlock()

	return func() {
		i.mu.Lock()
		delete(i.subs, id)
		i.mu.Unlock()
	}
}

// Notify announces a mutation to all subscribers synchronously, so a
// caller that mutates and then refetches observes its own invalidation
// first.
func (i *Invalidator) Notify(resource ResourceKind, op Op) {
	if i == nil {
		return
	}
	event := Event{ID: uuid.NewString(), Resource: resource, Op: op}

	i.mu.Lock()
	fns := make([]func(Event), 0, len(i.subs))
	for _, fn := range i.subs {
		fns = append(fns, fn)
	}
	i.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}
