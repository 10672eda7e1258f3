package gesture

// State is the press/release machine state
type State uint8

const (
	StateIdle    State = iota
	StatePressed       // A cell is held, waiting for release
)

func (s State) String() string {
	if s == StatePressed {
		return "pressed"
	}
	return "idle"
}
