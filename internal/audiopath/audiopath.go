// Package audiopath arbitrates exclusive access to audio sources and
// sinks, so that e.g. the RX baseband path and a locally played alert
// tone never both drive the speaker at once.
//
// Grounded on original_source/openrtx/src/core/audio_path.cpp: the same
// Path/Route bookkeeping, suspend-by-priority semantics and externally
// supplied compatibility oracle, translated from a fixed-size static
// array plus OS mutex into a map-backed table guarded by a
// sync.Mutex.
package audiopath

import (
	"sync"

	"github.com/openrtx/m17core/internal/rtxerr"
)

// Endpoint identifies one audio source or sink, e.g. "mic", "rx", "spk".
type Endpoint string

// Priority orders routes for preemption: a higher-priority request
// suspends any incompatible lower-priority route.
type Priority int

// PathID is a strictly monotonically increasing identifier returned by
// Request and used to Release or query a route later.
type PathID uint32

// route is one granted (source, sink, priority) triple, together with
// the suspension DAG edges described in spec.md §4.3: suspendedBy is the
// set of routes currently holding this one suspended; suspending is the
// set of routes this one currently holds suspended.
type route struct {
	id          PathID
	source      Endpoint
	sink        Endpoint
	priority    Priority
	suspendedBy map[PathID]struct{}
	suspending  map[PathID]struct{}
}

func (r *route) suspended() bool { return len(r.suspendedBy) > 0 }

// Compatible reports whether two routes may be active at the same time.
// The arbiter has no built-in notion of hardware contention, so this is
// supplied by the caller (typically: incompatible iff they share a sink,
// or share a source that is exclusive, such as the RF front end).
type Compatible func(a, b Route) bool

// Route is the public view of a granted path, returned by Routes.
type Route struct {
	ID        PathID
	Source    Endpoint
	Sink      Endpoint
	Priority  Priority
	Suspended bool
}

// Status reports whether a path is currently open and, if so, whether it
// is active or suspended by a higher-priority conflicting route.
type Status int

const (
	// StatusClosed means the PathID names no currently granted route.
	StatusClosed Status = iota
	// StatusOpen means the route is active.
	StatusOpen
	// StatusSuspended means the route is granted but paused because a
	// higher-priority incompatible route is active.
	StatusSuspended
)

// Arbiter grants and tracks audio routes, suspending lower-priority
// routes that conflict with a newly granted higher-priority one and
// resuming them once the conflict clears.
type Arbiter struct {
	mu         sync.Mutex
	compatible Compatible
	routes     map[PathID]*route
	nextID     PathID
}

// New builds an Arbiter using compatible to decide whether two routes may
// coexist.
func New(compatible Compatible) *Arbiter {
	return &Arbiter{
		compatible: compatible,
		routes:     make(map[PathID]*route),
		nextID:     1,
	}
}

func (r *route) export() Route {
	return Route{ID: r.id, Source: r.source, Sink: r.sink, Priority: r.priority, Suspended: r.suspended()}
}

// Request opens a new route between source and sink at the given
// priority, following spec.md §4.3: if any currently active route is
// incompatible with the request and holds priority ≥ the requested one,
// the request is denied. Otherwise every incompatible active route is
// suspended by the new one, which itself becomes active.
func (a *Arbiter) Request(source, sink Endpoint, priority Priority) (PathID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	candidate := Route{Source: source, Sink: sink, Priority: priority}

	var toSuspend []*route
	for _, other := range a.routes {
		if other.suspended() {
			continue
		}
		if a.compatible(candidate, other.export()) {
			continue
		}
		if other.priority >= priority {
			return 0, rtxerr.New("audiopath.Request", rtxerr.EPERM)
		}
		toSuspend = append(toSuspend, other)
	}

	id := a.nextID
	a.nextID++

	r := &route{
		id:          id,
		source:      source,
		sink:        sink,
		priority:    priority,
		suspendedBy: make(map[PathID]struct{}),
		suspending:  make(map[PathID]struct{}),
	}
	a.routes[id] = r

	for _, other := range toSuspend {
		other.suspendedBy[id] = struct{}{}
		r.suspending[other.id] = struct{}{}
	}

	return id, nil
}

// GetStatus reports id's current status.
func (a *Arbiter) GetStatus(id PathID) Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.routes[id]
	if !ok {
		return StatusClosed
	}
	if r.suspended() {
		return StatusSuspended
	}
	return StatusOpen
}

// Release closes id, propagating its suspension edges per spec.md §4.3:
// every route id had suspended inherits whatever suspended id itself
// (becoming active again once its suspendedBy set empties out), and
// every route that had suspended id inherits whatever id was suspending,
// preserving the suspension relation transitively.
func (a *Arbiter) Release(id PathID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.routes[id]
	if !ok {
		return rtxerr.New("audiopath.Release", rtxerr.EINVAL)
	}

	for subID := range r.suspending {
		sub, ok := a.routes[subID]
		if !ok {
			continue
		}
		delete(sub.suspendedBy, id)
		for supID := range r.suspendedBy {
			sub.suspendedBy[supID] = struct{}{}
		}
	}

	for supID := range r.suspendedBy {
		sup, ok := a.routes[supID]
		if !ok {
			continue
		}
		delete(sup.suspending, id)
		for subID := range r.suspending {
			sup.suspending[subID] = struct{}{}
		}
	}

	delete(a.routes, id)
	return nil
}

// Routes returns a snapshot of every currently granted route.
func (a *Arbiter) Routes() []Route {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Route, 0, len(a.routes))
	for _, r := range a.routes {
		out = append(out, r.export())
	}
	return out
}
