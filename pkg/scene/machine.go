package scene

import "fmt"

// Mode is the phase of the orbit/tunnel cycle.
type Mode int

const (
	ModeOrbit Mode = iota
	ModeTransitionIn
	ModeTunnel
	ModeTransitionOut
)

func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "ORBIT"
	case ModeTransitionIn:
		return "TRANSITION_IN"
	case ModeTunnel:
		return "TUNNEL"
	case ModeTransitionOut:
		return "TRANSITION_OUT"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State machine thresholds and rates. Rates are per second.
const (
	ApproachRadius  = 3.5 // inside this distance the transition starts building
	CommitRadius    = 2.2 // inside this distance a built-up transition commits
	CommitThreshold = 0.9 // transition level required to commit

	ApproachRate = 1.5
	RecedeRate   = 2.0
	EnterRate    = 2.0
	ExitRate     = 2.0
	TunnelSpeed  = 10.0
)

// Event describes what a single update did.
type Event struct {
	From        Mode
	To          Mode
	OrbitInput  bool // orbit input state after the update
	ResetCamera bool // the camera should return to its default pose
}

// Changed reports whether the update moved to a new mode.
func (e Event) Changed() bool {
	return e.From != e.To
}

// Machine drives the ORBIT → TRANSITION_IN → TUNNEL → TRANSITION_OUT cycle.
// The zero value starts in ModeOrbit with orbit input enabled.
type Machine struct {
	mode       Mode
	transition float64
	depth      float64
	locked     bool // orbit input disabled
}

// Mode returns the current mode
func (m *Machine) Mode() Mode { return m.mode }

// Transition returns the cross-fade level in [0, 1]
func (m *Machine) Transition() float64 { return m.transition }

// TunnelDepth returns the distance travelled down the tunnel
func (m *Machine) TunnelDepth() float64 { return m.depth }

// OrbitInput reports whether camera orbit input is accepted
func (m *Machine) OrbitInput() bool { return !m.locked }

// Update advances the machine by delta seconds with the camera at distance
// from the origin. A non-positive delta changes nothing.
func (m *Machine) Update(distance, delta float64) Event {
	ev := Event{From: m.mode, To: m.mode}
	if delta <= 0 {
		ev.OrbitInput = m.OrbitInput()
		return ev
	}

	switch m.mode {
	case ModeOrbit:
		if distance < ApproachRadius {
			m.transition = min(1, m.transition+delta*ApproachRate)
			if distance < CommitRadius && m.transition > CommitThreshold {
				m.mode = ModeTransitionIn
			}
		} else {
			m.transition = max(0, m.transition-delta*RecedeRate)
		}

	case ModeTransitionIn:
		m.transition = min(1, m.transition+delta*EnterRate)
		if m.transition >= 1 {
			m.mode = ModeTunnel
			m.locked = true
			m.depth = 0
		}

	case ModeTunnel:
		m.depth += delta * TunnelSpeed

	case ModeTransitionOut:
		m.transition = max(0, m.transition-delta*ExitRate)
		if m.transition <= 0 {
			m.mode = ModeOrbit
			m.locked = false
			ev.ResetCamera = true
		}
	}

	ev.To = m.mode
	ev.OrbitInput = m.OrbitInput()
	return ev
}

// Scroll applies a wheel or advance event. Scrolling up while in the tunnel
// starts the way out; every other combination is ignored. It reports whether
// the mode changed.
func (m *Machine) Scroll(up bool) bool {
	if m.mode != ModeTunnel || !up {
		return false
	}
	m.mode = ModeTransitionOut
	return true
}
