package gesture

// IntentType tells the frame loop what to do after an event
type IntentType uint8

const (
	IntentNone   IntentType = iota
	IntentRedraw            // World changed, repaint
	IntentResize            // Terminal changed size, reallocate canvas and repaint
	IntentQuit              // Leave the loop
)

func (t IntentType) String() string {
	switch t {
	case IntentRedraw:
		return "redraw"
	case IntentResize:
		return "resize"
	case IntentQuit:
		return "quit"
	default:
		return "none"
	}
}

// Intent is the outcome of one processed event
// Width and Height are set only for IntentResize
type Intent struct {
	Type   IntentType
	Width  int
	Height int
}
