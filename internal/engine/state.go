package engine

import "errors"

// State is the engine's lifecycle state.
//
//	Detached -> Hidden <-> Visible
//	any attached state -> Disabled (terminal)
type State int

const (
	StateDetached State = iota
	StateHidden
	StateVisible
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateDetached:
		return "detached"
	case StateHidden:
		return "hidden"
	case StateVisible:
		return "visible"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ErrDisabled is returned once a document exceeded the line limit. The engine
// never recovers; attach a new engine to a smaller document instead.
var ErrDisabled = errors.New("minimap disabled: document exceeds line limit")

// ScrollState is the primary viewport position last applied to the overview.
// Values start at -1 so the first refresh always counts as a change.
type ScrollState struct {
	LastFirstLine     int
	LastLinesOnScreen int
	// LastCenterLine is a document line.
	LastCenterLine int
}

func newScrollState() ScrollState {
	return ScrollState{LastFirstLine: -1, LastLinesOnScreen: -1, LastCenterLine: -1}
}
