// Package aggregator collapses per-profile, per-device connection
// transitions into one adapter-wide connection state.
//
// An Aggregator does no locking of its own; the owner must serialize calls
// to Apply and Reset.
package aggregator

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/btadapter"
)

// ErrInvalidState is returned by Apply when prev or next is not a known state.
var ErrInvalidState = errors.New("invalid connection state")

// CounterUnderflowError is panicked when a transition leaves a state whose
// global counter is already zero. It means an earlier caller broke the
// transition contract and the counters can no longer be trusted.
type CounterUnderflowError struct {
	Profile btadapter.ProfileID
	Prev    btadapter.ConnState
	Next    btadapter.ConnState
}

func (e *CounterUnderflowError) Error() string {
	return fmt.Sprintf("counter underflow: profile %v, %v -> %v, no %v devices counted",
		e.Profile, e.Prev, e.Next, e.Prev)
}

// Entry is the aggregate state of one profile: the dominant state and how
// many devices are tracked in it. Devices is at least 1 for a stored entry.
type Entry struct {
	State   btadapter.ConnState `json:"state"`
	Devices uint32              `json:"devices"`
}

// Counters are device counts in each non-idle state across all profiles.
type Counters struct {
	Connecting    uint32 `json:"connecting"`
	Connected     uint32 `json:"connected"`
	Disconnecting uint32 `json:"disconnecting"`
}

// Result describes the effect of one Apply.
type Result struct {
	// Changed is set when the adapter-wide state moved; Change holds it.
	Changed bool
	Change  btadapter.AdapterChange

	// UnexpectedTransition flags a prev -> next step outside the normal
	// cycle. The transition was applied anyway.
	UnexpectedTransition bool
}

// Aggregator tracks per-profile entries and the adapter-wide counters.
type Aggregator struct {
	profiles map[btadapter.ProfileID]Entry
	counters Counters
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{profiles: make(map[btadapter.ProfileID]Entry)}
}

// Apply records that one device on profile moved from prev to next.
func (a *Aggregator) Apply(profile btadapter.ProfileID, prev, next btadapter.ConnState) (Result, error) {
	if !prev.Valid() || !next.Valid() {
		return Result{}, errors.Wrapf(ErrInvalidState, "profile %v: %v -> %v", profile, prev, next)
	}

	// check the counter before touching anything so a panic leaves no
	// partial update behind
	if c := a.counterFor(prev); c != nil && *c == 0 {
		panic(&CounterUnderflowError{Profile: profile, Prev: prev, Next: next})
	}

	res := Result{UnexpectedTransition: !btadapter.ExpectedTransition(prev, next)}

	a.updateProfile(profile, prev, next)

	if res.Changed = a.updateCounters(prev, next); res.Changed {
		res.Change = btadapter.AdapterChange{
			Prev: btadapter.AdapterStateFor(prev),
			Next: btadapter.AdapterStateFor(next),
		}
	}

	return res, nil
}

func (a *Aggregator) updateProfile(profile btadapter.ProfileID, prev, next btadapter.ConnState) {
	cur, ok := a.profiles[profile]
	if !ok {
		a.profiles[profile] = Entry{State: next, Devices: 1}
		return
	}

	switch {
	case next == cur.State:
		cur.Devices++

	case next == btadapter.StateConnected ||
		(next == btadapter.StateConnecting && cur.State != btadapter.StateConnected):
		cur = Entry{State: next, Devices: 1}

	case cur.Devices == 1 && prev == cur.State:
		cur = Entry{State: next, Devices: 1}

	case cur.Devices > 1 && prev == cur.State:
		cur.Devices--
		if cur.State != btadapter.StateConnected && cur.State != btadapter.StateConnecting {
			cur.State = next
		}

	default:
		// not the device this profile is tracking
		return
	}

	a.profiles[profile] = cur
}

func (a *Aggregator) counterFor(s btadapter.ConnState) *uint32 {
	switch s {
	case btadapter.StateConnecting:
		return &a.counters.Connecting
	case btadapter.StateConnected:
		return &a.counters.Connected
	case btadapter.StateDisconnecting:
		return &a.counters.Disconnecting
	}
	return nil
}

// updateCounters moves one device from prev's counter to next's and reports
// whether the adapter-wide state changed as a result.
func (a *Aggregator) updateCounters(prev, next btadapter.ConnState) bool {
	if c := a.counterFor(prev); c != nil {
		*c--
	}
	if c := a.counterFor(next); c != nil {
		*c++
	}

	c := a.counters
	switch next {
	case btadapter.StateConnecting:
		return c.Connected == 0 && c.Connecting == 1
	case btadapter.StateConnected:
		return c.Connected == 1
	case btadapter.StateDisconnecting:
		return c.Connected == 0 && c.Disconnecting == 1
	case btadapter.StateDisconnected:
		return c.Connected == 0 && c.Connecting == 0
	default:
		return true
	}
}

// State returns the dominant state of profile, Disconnected if none was seen.
func (a *Aggregator) State(profile btadapter.ProfileID) btadapter.ConnState {
	if e, ok := a.profiles[profile]; ok {
		return e.State
	}
	return btadapter.StateDisconnected
}

// Entry returns the stored entry for profile, if any.
func (a *Aggregator) Entry(profile btadapter.ProfileID) (Entry, bool) {
	e, ok := a.profiles[profile]
	return e, ok
}

// Counters returns the current adapter-wide device counts.
func (a *Aggregator) Counters() Counters {
	return a.counters
}

// Snapshot is a copy of the aggregator state that shares nothing with it.
type Snapshot struct {
	Profiles map[btadapter.ProfileID]Entry `json:"profiles"`
	Counters Counters                      `json:"counters"`
}

func (a *Aggregator) Snapshot() Snapshot {
	s := Snapshot{
		Profiles: make(map[btadapter.ProfileID]Entry, len(a.profiles)),
		Counters: a.counters,
	}
	for k, v := range a.profiles {
		s.Profiles[k] = v
	}
	return s
}

// Reset drops all profile entries and zeroes the counters.
func (a *Aggregator) Reset() {
	a.profiles = make(map[btadapter.ProfileID]Entry)
	a.counters = Counters{}
}
