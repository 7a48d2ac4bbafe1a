package saga

import "errors"

// State is a stage of one order-placement attempt. Stages advance strictly
// forward:
//
//	INIT → AUTHENTICATED → PRICED → PAID → RESERVED → PERSISTED
//
// with ABORTED reachable from every non-terminal stage. ABORTED and PERSISTED
// are absorbing.
type State string

const (
	StateInit          State = "INIT"
	StateAuthenticated State = "AUTHENTICATED"
	StatePriced        State = "PRICED"
	StatePaid          State = "PAID"
	StateReserved      State = "RESERVED"
	StatePersisted     State = "PERSISTED"
	StateAborted       State = "ABORTED"
)

var ErrInvalidTransition = errors.New("saga: invalid state transition")

// next holds the only legal forward transition per state.
var next = map[State]State{
	StateInit:          StateAuthenticated,
	StateAuthenticated: StatePriced,
	StatePriced:        StatePaid,
	StatePaid:          StateReserved,
	StateReserved:      StatePersisted,
}

// Attempt tracks the state of a single order-placement run.
type Attempt struct {
	state  State
	reason error
}

// NewAttempt starts an attempt in INIT.
func NewAttempt() *Attempt {
	return &Attempt{state: StateInit}
}

// State returns the current state.
func (a *Attempt) State() State {
	return a.state
}

// Reason returns the abort reason, or nil if the attempt was not aborted.
func (a *Attempt) Reason() error {
	return a.reason
}

// Terminal reports whether the attempt reached PERSISTED or ABORTED.
func (a *Attempt) Terminal() bool {
	return a.state == StatePersisted || a.state == StateAborted
}

// Advance moves the attempt to the given state. Only the single legal forward
// transition is allowed.
func (a *Attempt) Advance(to State) error {
	if next[a.state] != to {
		return ErrInvalidTransition
	}
	a.state = to

	return nil
}

// Abort moves the attempt into the absorbing ABORTED state with the given
// reason. Aborting a terminal attempt is invalid.
func (a *Attempt) Abort(reason error) error {
	if a.Terminal() {
		return ErrInvalidTransition
	}
	a.state = StateAborted
	a.reason = reason

	return nil
}
