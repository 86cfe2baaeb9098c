// Package status tracks whether the debugged program is running.
package status

import "github.com/dshills/stormdbg/internal/event"

// State is the inferior's run state as shown in the status bar.
type State int

const (
	// NotRunning is the initial state and the state after exit.
	NotRunning State = iota
	// Running is entered on start-running.
	Running
	// Stopped is entered on a normal stop or a signal.
	Stopped
)

// Label returns the status bar text for s.
func (s State) Label() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Not running"
	}
}

// Icon returns the status bar icon name for s.
func (s State) Icon() string {
	switch s {
	case Running:
		return "inferior_running.png"
	case Stopped:
		return "inferior_stopped.png"
	default:
		return "inferior_not_running.png"
	}
}

// String implements fmt.Stringer.
func (s State) String() string { return s.Label() }

// Observer is told about every state change.
type Observer func(State)

// Indicator holds the current State. It is only used on the UI loop.
type Indicator struct {
	state    State
	observer Observer
}

// NewIndicator returns an indicator in the NotRunning state. The observer,
// if any, is called once with the initial state.
func NewIndicator(observer Observer) *Indicator {
	ind := &Indicator{state: NotRunning, observer: observer}
	if observer != nil {
		observer(ind.state)
	}
	return ind
}

// State returns the current state.
func (i *Indicator) State() State { return i.state }

// Apply moves the indicator according to a lifecycle kind and reports
// whether the state changed. Kinds that carry no run-state meaning are
// ignored.
func (i *Indicator) Apply(kind event.LifecycleKind) bool {
	next, ok := transition(kind)
	if !ok || next == i.state {
		return false
	}
	i.state = next
	if i.observer != nil {
		i.observer(next)
	}
	return true
}

func transition(kind event.LifecycleKind) (State, bool) {
	switch kind {
	case event.StartRunning:
		return Running, true
	case event.StoppedNormally, event.ReceivedSignal:
		return Stopped, true
	case event.Exited:
		return NotRunning, true
	default:
		return 0, false
	}
}
