// Package route keeps the pickup/drop-off pair of one form session and
// reprices it whenever either side changes.
package route

import (
	"sync"

	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/types"
)

// Estimator prices a route pair; ok is false when the price is absent.
type Estimator interface {
	Estimate(route pricing.RoutePair) (price int64, ok bool)
}

// Snapshot is the route and its estimate right after a change.
type Snapshot struct {
	Route     pricing.RoutePair
	Price     int64
	Available bool
}

type Tracker struct {
	mu        sync.Mutex
	estimator Estimator
	current   Snapshot
	observers []func(Snapshot)
}

func NewTracker(estimator Estimator) *Tracker {
	return &Tracker{estimator: estimator}
}

// OnChange registers fn to run after every change, in registration order.
func (t *Tracker) OnChange(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

func (t *Tracker) Current() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Tracker) SetPickup(p types.Point) Snapshot {
	return t.update(func(r *pricing.RoutePair) { r.Pickup = &p })
}

func (t *Tracker) SetDropoff(p types.Point) Snapshot {
	return t.update(func(r *pricing.RoutePair) { r.Dropoff = &p })
}

func (t *Tracker) ClearPickup() Snapshot {
	return t.update(func(r *pricing.RoutePair) { r.Pickup = nil })
}

func (t *Tracker) ClearDropoff() Snapshot {
	return t.update(func(r *pricing.RoutePair) { r.Dropoff = nil })
}

func (t *Tracker) update(change func(*pricing.RoutePair)) Snapshot {
	t.mu.Lock()
	route := t.current.Route
	change(&route)
	snap := Snapshot{Route: route}
	snap.Price, snap.Available = t.estimator.Estimate(route)
	t.current = snap
	observers := append(([]func(Snapshot))(nil), t.observers...)
	t.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return snap
}
