package terminal

import (
	"io"
	"os"
	"sync"
)

// Terminal is the session collaborator: raw input, pointer reporting, an isolated screen
// and immediate-mode text output
type Terminal interface {
	// Init enters raw mode and the alternate screen, hides the cursor and disables autowrap
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// PollEvent blocks until next input event
	PollEvent() Event

	// PostEvent injects a synthetic event
	PostEvent(Event)

	// SetMouseMode enables/disables mouse event reporting
	SetMouseMode(mode MouseMode) error

	// Clear erases the screen and homes the cursor
	Clear()

	// MoveCursor positions the output cursor (0-indexed)
	MoveCursor(x, y int)

	// WriteText writes s at the cursor and advances it
	WriteText(s string)

	// Flush pushes queued output to the terminal
	Flush() error
}

// termImpl implements Terminal over a Backend with direct ANSI sequences
type termImpl struct {
	backend Backend

	output      *outputWriter
	input       *inputReader
	resizeCh    chan Event
	syntheticCh chan Event

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouseMode   MouseMode
}

// New creates a Terminal bound to stdin/stdout
func New() Terminal {
	return newWithBackend(newBackend())
}

func newWithBackend(b Backend) *termImpl {
	return &termImpl{
		backend:     b,
		output:      newOutputWriter(b),
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan Event, 1),
	}
}

func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		ev := Event{Type: EventResize, Width: w, Height: h}
		// Keep only the latest size pending
		select {
		case t.resizeCh <- ev:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ev:
			default:
			}
		}
	})

	t.output.raw(csiAltScreenEnter)
	t.output.raw(csiCursorHide)
	t.output.raw(csiAutoWrapOff)
	t.output.clear()
	if err := t.output.flush(); err != nil {
		t.backend.Fini()
		return err
	}

	t.input.start()

	t.initialized = true
	return nil
}

// Fini attempts every restore step even when an earlier one fails
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.finalized = true

	if t.mouseMode != MouseModeNone {
		for _, m := range []MouseMode{MouseModeMotion, MouseModeDrag, MouseModeClick} {
			if t.mouseMode&m != 0 {
				_, off := mouseModeSequences(m)
				t.output.raw(off)
			}
		}
		t.output.raw(csiMouseSGROff)
		t.mouseMode = MouseModeNone
	}

	if t.input != nil {
		t.input.stop()
	}

	t.output.raw(csiSGR0)
	t.output.raw(csiClear)
	t.output.raw(csiCursorShow)
	t.output.raw(csiAltScreenExit)
	// Autowrap is re-enabled after leaving the alternate screen so the main buffer gets it
	t.output.raw(csiAutoWrapOn)
	t.output.raw(csiSGR0)
	t.output.flush()

	t.backend.Fini()
}

func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

func (t *termImpl) PollEvent() Event {
	select {
	case ev := <-t.syntheticCh:
		return ev
	default:
	}

	select {
	case ev := <-t.syntheticCh:
		return ev
	case ev := <-t.input.events():
		return ev
	case ev := <-t.resizeCh:
		return ev
	}
}

func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
	}
}

func (t *termImpl) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}

	old := t.mouseMode
	t.mouseMode = mode

	// Disable in reverse order of enable
	for _, m := range []MouseMode{MouseModeMotion, MouseModeDrag, MouseModeClick} {
		if old&m != 0 && mode&m == 0 {
			_, off := mouseModeSequences(m)
			t.output.raw(off)
		}
	}
	if mode == MouseModeNone && old != MouseModeNone {
		t.output.raw(csiMouseSGROff)
	}
	if mode != MouseModeNone && old == MouseModeNone {
		t.output.raw(csiMouseSGROn)
	}
	for _, m := range []MouseMode{MouseModeClick, MouseModeDrag, MouseModeMotion} {
		if mode&m != 0 && old&m == 0 {
			on, _ := mouseModeSequences(m)
			t.output.raw(on)
		}
	}

	return t.output.flush()
}

func (t *termImpl) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return
	}
	t.output.clear()
}

func (t *termImpl) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	t.output.moveCursor(x, y)
}

func (t *termImpl) WriteText(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return
	}
	t.output.text(s)
}

func (t *termImpl) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return nil
	}
	return t.output.flush()
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
