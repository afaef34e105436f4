package breathing

// MaxCycles is the number of completed cycles after which the machine halts.
const MaxCycles = 10

// Phase is a step of the breathing cycle.
type Phase int

// Phases in cycle order.
const (
	Inhale Phase = iota
	Hold
	Exhale
	Hold2
	numPhases
)

func (p Phase) String() string {
	switch p {
	case Inhale:
		return "Inhale"
	case Hold:
		return "Hold"
	case Exhale:
		return "Exhale"
	case Hold2:
		return "Hold"
	default:
		return "?"
	}
}

// durations maps every phase to its length in the given profile.
func durations(p Profile) [numPhases]int {
	return [numPhases]int{
		Inhale: p.Inhale,
		Hold:   p.Hold,
		Exhale: p.Exhale,
		Hold2:  p.Hold2,
	}
}

// next returns the phase following from, skipping phases with no duration.
// wrapped reports whether the cycle restarted at Inhale.
func next(from Phase, table [numPhases]int) (phase Phase, wrapped bool) {
	p := from
	for i := 0; i < int(numPhases); i++ {
		p = (p + 1) % numPhases
		if p == Inhale {
			wrapped = true
		}
		if table[p] > 0 {
			return p, wrapped
		}
	}
	return Inhale, true
}

// State is the externally visible machine state.
type State struct {
	Phase            Phase
	SecondsRemaining int
	CycleCount       int
	Active           bool
}

// Machine drives the inhale/hold/exhale/hold cycle for one profile.
type Machine struct {
	profile Profile
	table   [numPhases]int
	state   State
}

// NewMachine returns an inactive machine for p.
func NewMachine(p Profile) *Machine {
	m := &Machine{}
	m.Select(p)
	return m
}

// Profile returns the active profile.
func (m *Machine) Profile() Profile {
	return m.profile
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Select switches profile and resets the cycle. Activity is preserved.
func (m *Machine) Select(p Profile) {
	m.profile = p
	m.table = durations(p)
	m.reset()
}

// SetActive starts or stops the exercise. Either way the cycle resets.
func (m *Machine) SetActive(active bool) {
	m.reset()
	m.state.Active = active
}

// Toggle flips the active flag and returns the new value.
func (m *Machine) Toggle() bool {
	m.SetActive(!m.state.Active)
	return m.state.Active
}

// Halted reports whether all cycles were completed.
func (m *Machine) Halted() bool {
	return m.state.CycleCount >= MaxCycles
}

// Tick advances the machine by one second. It reports whether the phase
// changed. An inactive or halted machine ignores ticks.
func (m *Machine) Tick() bool {
	if !m.state.Active || m.Halted() {
		return false
	}
	if m.state.SecondsRemaining > 1 {
		m.state.SecondsRemaining--
		return false
	}
	phase, wrapped := next(m.state.Phase, m.table)
	if wrapped {
		m.state.CycleCount++
		if m.Halted() {
			// The last phase stays on screen.
			m.state.SecondsRemaining = 0
			m.state.Active = false
			return false
		}
	}
	m.state.Phase = phase
	m.state.SecondsRemaining = m.table[phase]
	return true
}

func (m *Machine) reset() {
	m.state.Phase = Inhale
	m.state.SecondsRemaining = m.profile.Inhale
	m.state.CycleCount = 0
}
