package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// tcellTerm implements Terminal on top of a tcell.Screen
// tcell owns the session details (terminfo, raw mode, mouse reporting), this type only
// translates events and keeps an explicit output cursor
type tcellTerm struct {
	screen tcell.Screen

	mu          sync.Mutex
	initialized bool
	finalized   bool

	cursorX, cursorY int
	// Button state from the previous mouse event, tcell reports state rather than transitions
	lastButtons tcell.ButtonMask
}

// NewTcell wraps screen; a nil screen selects the platform default
func NewTcell(screen tcell.Screen) (Terminal, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	return &tcellTerm{screen: screen}, nil
}

func (t *tcellTerm) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	t.screen.Clear()
	t.initialized = true
	return nil
}

func (t *tcellTerm) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return
	}
	t.finalized = true
	t.screen.DisableMouse()
	t.screen.Fini()
}

func (t *tcellTerm) Size() (int, int) {
	return t.screen.Size()
}

func (t *tcellTerm) SetMouseMode(mode MouseMode) error {
	if mode == MouseModeNone {
		t.screen.DisableMouse()
		return nil
	}
	var flags []tcell.MouseFlags
	if mode&MouseModeClick != 0 {
		flags = append(flags, tcell.MouseButtonEvents)
	}
	if mode&MouseModeDrag != 0 {
		flags = append(flags, tcell.MouseDragEvents)
	}
	if mode&MouseModeMotion != 0 {
		flags = append(flags, tcell.MouseMotionEvents)
	}
	t.screen.EnableMouse(flags...)
	return nil
}

func (t *tcellTerm) PollEvent() Event {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			// Screen finalized
			return Event{Type: EventClosed}
		case *tcell.EventResize:
			w, h := ev.Size()
			return Event{Type: EventResize, Width: w, Height: h}
		case *tcell.EventKey:
			return translateKey(ev)
		case *tcell.EventMouse:
			return t.translateMouse(ev)
		case *tcell.EventError:
			return Event{Type: EventError, Err: ev}
		case *tcell.EventInterrupt:
			if posted, ok := ev.Data().(Event); ok {
				return posted
			}
		}
	}
}

// PostEvent delivers ev through tcell's queue so it is ordered with real input
func (t *tcellTerm) PostEvent(ev Event) {
	t.screen.PostEvent(tcell.NewEventInterrupt(ev))
}

func (t *tcellTerm) Clear() {
	t.screen.Clear()
	t.cursorX, t.cursorY = 0, 0
}

func (t *tcellTerm) MoveCursor(x, y int) {
	t.cursorX, t.cursorY = x, y
}

// WriteText places s cell by cell; runes past the right edge are dropped like a non-wrapping terminal
func (t *tcellTerm) WriteText(s string) {
	w, _ := t.screen.Size()
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			r = ' '
		}
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if t.cursorX+rw > w {
			t.cursorX = w
			return
		}
		t.screen.SetContent(t.cursorX, t.cursorY, r, nil, tcell.StyleDefault)
		t.cursorX += rw
	}
}

func (t *tcellTerm) Flush() error {
	t.screen.Show()
	return nil
}

func translateKey(ev *tcell.EventKey) Event {
	out := Event{Type: EventKey, Modifiers: translateMods(ev.Modifiers())}

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		out.Key = KeyRune
		out.Rune = ev.Rune()
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && k != tcell.KeyTab && k != tcell.KeyEnter && k != tcell.KeyBackspace:
		out.Key = KeyCtrl
		out.Rune = rune('a' + int(k-tcell.KeyCtrlA))
		out.Modifiers |= ModCtrl
	default:
		out.Key = tcellKeys[k]
	}
	return out
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyInsert:     KeyInsert,
}

func translateMods(m tcell.ModMask) Modifier {
	var mod Modifier
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModAlt != 0 || m&tcell.ModMeta != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	return mod
}

// translateMouse derives press/release transitions from tcell's button state
func (t *tcellTerm) translateMouse(ev *tcell.EventMouse) Event {
	x, y := ev.Position()
	buttons := ev.Buttons()
	prev := t.lastButtons
	t.lastButtons = buttons &^ (tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight)

	out := Event{Type: EventMouse, MouseX: x, MouseY: y, Modifiers: translateMods(ev.Modifiers())}

	switch {
	case buttons&tcell.WheelUp != 0:
		out.MouseBtn, out.MouseAction = MouseBtnWheelUp, MouseActionPress
		return out
	case buttons&tcell.WheelDown != 0:
		out.MouseBtn, out.MouseAction = MouseBtnWheelDown, MouseActionPress
		return out
	}

	for _, b := range []struct {
		mask tcell.ButtonMask
		btn  MouseButton
	}{
		{tcell.Button1, MouseBtnLeft},
		{tcell.Button3, MouseBtnMiddle},
		{tcell.Button2, MouseBtnRight},
	} {
		now, was := buttons&b.mask != 0, prev&b.mask != 0
		switch {
		case now && !was:
			out.MouseBtn, out.MouseAction = b.btn, MouseActionPress
			return out
		case !now && was:
			out.MouseBtn, out.MouseAction = b.btn, MouseActionRelease
			return out
		case now && was:
			out.MouseBtn, out.MouseAction = b.btn, MouseActionDrag
			return out
		}
	}

	out.MouseAction = MouseActionMove
	return out
}
