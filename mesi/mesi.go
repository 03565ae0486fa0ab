// Package mesi defines the MESI coherence states and their transition tables.
//
// Snoop transitions are encoded as lookup tables keyed on the current state,
// one table per event class, so the snoop side of the protocol is readable in
// one place instead of being scattered across cache and bus code. Local
// write-hit transitions are not tabled here; NeedsUpgrade only reports which
// state needs a bus upgrade:
//
//	next, supplies := mesi.OnSnoopRead(state)
//	next, invalidated := mesi.OnSnoopWrite(state)
package mesi

// State is a MESI coherence state.
type State uint8

// MESI states.
const (
	Invalid State = iota
	Shared
	Exclusive
	Modified
)

// String returns the conventional one-letter form (M/E/S/I).
func (s State) String() string {
	switch s {
	case Modified:
		return "M"
	case Exclusive:
		return "E"
	case Shared:
		return "S"
	case Invalid:
		return "I"
	default:
		return "?"
	}
}

// snoopRead maps a state to its successor when a peer's read is observed,
// and whether the line supplies the block on the bus.
var snoopRead = [4]struct {
	next     State
	supplies bool
}{
	Invalid:   {Invalid, false},
	Shared:    {Shared, true},
	Exclusive: {Shared, true},
	Modified:  {Shared, true},
}

// snoopWrite maps a state to its successor when a peer's write is observed,
// and whether the transition counts as an invalidation.
var snoopWrite = [4]struct {
	next        State
	invalidated bool
}{
	Invalid:   {Invalid, false},
	Shared:    {Invalid, true},
	Exclusive: {Invalid, true},
	Modified:  {Modified, false},
}

// snoopUpgrade maps a state to its successor when a peer upgrades a shared
// line, and whether the transition counts as an invalidation. Only Shared
// copies can exist when an upgrade is on the bus.
var snoopUpgrade = [4]struct {
	next        State
	invalidated bool
}{
	Invalid:   {Invalid, false},
	Shared:    {Invalid, true},
	Exclusive: {Exclusive, false},
	Modified:  {Modified, false},
}

// OnSnoopRead returns the state after observing a peer read, and whether
// this line supplies the block over the bus.
func OnSnoopRead(s State) (next State, supplies bool) {
	e := snoopRead[s]
	return e.next, e.supplies
}

// OnSnoopWrite returns the state after observing a peer write, and whether
// a valid shareable copy was invalidated.
func OnSnoopWrite(s State) (next State, invalidated bool) {
	e := snoopWrite[s]
	return e.next, e.invalidated
}

// OnSnoopUpgrade returns the state after observing a peer upgrade, and
// whether a shared copy was invalidated.
func OnSnoopUpgrade(s State) (next State, invalidated bool) {
	e := snoopUpgrade[s]
	return e.next, e.invalidated
}

// NeedsUpgrade reports whether a local write hit in state s must first win
// the bus with an upgrade transaction. Only Shared lines do; Exclusive lines
// promote silently and Modified lines already own the block.
func NeedsUpgrade(s State) bool {
	return s == Shared
}
