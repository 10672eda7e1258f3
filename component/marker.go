package component

// Marker is a set of presentational and transient gesture flags attached to an entity
type Marker uint8

const (
	MarkerNone     Marker = 0
	MarkerSelected Marker = 1 << 0 // Fixed highlight assigned at build
	MarkerPressed  Marker = 1 << 1 // Cell under an in-progress press
	MarkerReleased Marker = 1 << 2 // Cell the press was released on, consumed immediately
)

// MarkerTransient covers flags that must not outlive a gesture
const MarkerTransient = MarkerPressed | MarkerReleased

// Highlighted reports whether the renderer brackets the element
func (m Marker) Highlighted() bool {
	return m&(MarkerSelected|MarkerPressed) != 0
}

func (m Marker) String() string {
	if m == MarkerNone {
		return "none"
	}
	s := ""
	for _, f := range []struct {
		bit  Marker
		name string
	}{
		{MarkerSelected, "selected"},
		{MarkerPressed, "pressed"},
		{MarkerReleased, "released"},
	} {
		if m&f.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += f.name
		}
	}
	return s
}
