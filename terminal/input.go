package terminal

import (
	"errors"
	"sync"
	"time"
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventMouse
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError

	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

var errInputClosed = errors.New("terminal input closed")

// escapeTimeout bounds how long a lone ESC byte waits for the rest of a sequence
const escapeTimeout = 50 * time.Millisecond

// inputReader turns the raw byte stream from the backend into events
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Persistent buffer for sequences split across reads
	buf       []byte
	escPostAt time.Time
}

func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

func (r *inputReader) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	go r.readLoop()
}

// stop signals the reader and waits briefly for it to exit
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	select {
	case <-r.doneCh:
	case <-time.After(200 * time.Millisecond):
	}
}

func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			if errors.Is(err, errInputClosed) {
				r.sendEvent(Event{Type: EventClosed})
			} else {
				r.sendEvent(Event{Type: EventError, Err: err})
			}
			return
		}

		if len(data) == 0 {
			select {
			case <-r.stopCh:
				return
			default:
			}
			// Idle: a pending lone ESC is a real Escape key once the timeout passed
			if len(r.buf) == 1 && r.buf[0] == 0x1b && time.Since(r.escPostAt) >= escapeTimeout {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			continue
		}

		r.buf = append(r.buf, data...)
		consumed := parseInput(r.buf, r.sendEvent)
		r.buf = r.buf[:copy(r.buf, r.buf[consumed:])]
		if len(r.buf) > 0 && r.buf[0] == 0x1b {
			r.escPostAt = time.Now()
		}
	}
}

// sendEvent never blocks the reader; a full channel drops the event
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
	}
}

// parseInput emits events for every complete sequence in data and returns the bytes consumed
// Incomplete trailing sequences are left for the next read
func parseInput(data []byte, emit func(Event)) int {
	i := 0
	for i < len(data) {
		b := data[i]

		switch {
		case b == 0x1b:
			if i+1 >= len(data) {
				return i
			}
			n, ev := parseEscape(data[i:])
			if n == 0 {
				return i
			}
			if ev.Type != EventNone {
				emit(ev)
			}
			i += n

		case b >= 0x20 && b < 0x7f:
			emit(Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++

		case b == 0x7f:
			emit(Event{Type: EventKey, Key: KeyBackspace})
			i++

		case b < 0x20:
			emit(parseControl(b))
			i++

		default:
			if !utf8.FullRune(data[i:]) {
				return i
			}
			rn, size := utf8.DecodeRune(data[i:])
			if rn != utf8.RuneError {
				emit(Event{Type: EventKey, Key: KeyRune, Rune: rn})
			}
			i += size
		}
	}
	return i
}

// parseControl maps C0 control bytes to keys
func parseControl(b byte) Event {
	switch b {
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyCtrl, Rune: rune('a' + b - 1), Modifiers: ModCtrl}
	}
	return Event{Type: EventKey, Key: KeyCtrl, Modifiers: ModCtrl}
}

// parseEscape parses a sequence starting with ESC; returns 0 when more data is needed
// Unknown but complete sequences are consumed and reported as EventNone
func parseEscape(data []byte) (int, Event) {
	switch c := data[1]; {
	case c == '[':
		return parseCSI(data)
	case c == 'O':
		if len(data) < 3 {
			return 0, Event{}
		}
		if k, ok := ss3Keys[data[2]]; ok {
			return 3, Event{Type: EventKey, Key: k}
		}
		return 3, Event{}
	case c == 0x1b:
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}
	case c >= 0x20 && c < 0x7f:
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(c), Modifiers: ModAlt}
	case c < 0x20:
		ev := parseControl(c)
		ev.Modifiers |= ModAlt
		return 2, ev
	}
	return 1, Event{Type: EventKey, Key: KeyEscape}
}

// parseCSI handles ESC [ ... final
func parseCSI(data []byte) (int, Event) {
	if len(data) < 3 {
		return 0, Event{}
	}
	if data[2] == '<' {
		return parseSGRMouse(data)
	}

	for end := 2; end < len(data) && end < 32; end++ {
		b := data[end]
		if b < 0x20 || b > 0x7e {
			// Malformed, drop the introducer
			return 2, Event{}
		}
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			if k, mod, ok := lookupCSI(data[2 : end+1]); ok {
				return end + 1, Event{Type: EventKey, Key: k, Modifiers: mod}
			}
			return end + 1, Event{}
		}
	}
	if len(data) >= 32 {
		return 2, Event{}
	}
	return 0, Event{}
}

// parseSGRMouse parses ESC [ < Btn ; X ; Y (M|m)
func parseSGRMouse(data []byte) (int, Event) {
	end := -1
	for i := 3; i < len(data) && i < 32; i++ {
		if data[i] == 'M' || data[i] == 'm' {
			end = i
			break
		}
	}
	if end < 0 {
		if len(data) >= 32 {
			return 3, Event{}
		}
		return 0, Event{}
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1, Event{}
	}

	ev := Event{Type: EventMouse, MouseX: x - 1, MouseY: y - 1}

	// Bits 0-1 button, bit 5 motion, bit 6 wheel; bits 2-4 modifiers
	buttonID := btn & 0x03
	motion := btn&32 != 0

	if btn&64 != 0 {
		ev.MouseBtn = MouseBtnWheelUp
		if buttonID == 1 {
			ev.MouseBtn = MouseBtnWheelDown
		}
		ev.MouseAction = MouseActionPress
	} else {
		switch buttonID {
		case 0:
			ev.MouseBtn = MouseBtnLeft
		case 1:
			ev.MouseBtn = MouseBtnMiddle
		case 2:
			ev.MouseBtn = MouseBtnRight
		}
		switch {
		case data[end] == 'm':
			ev.MouseAction = MouseActionRelease
		case motion && ev.MouseBtn != MouseBtnNone:
			ev.MouseAction = MouseActionDrag
		case motion:
			ev.MouseAction = MouseActionMove
		default:
			ev.MouseAction = MouseActionPress
		}
	}

	if btn&4 != 0 {
		ev.Modifiers |= ModShift
	}
	if btn&8 != 0 {
		ev.Modifiers |= ModAlt
	}
	if btn&16 != 0 {
		ev.Modifiers |= ModCtrl
	}

	return end + 1, ev
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y"
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	var vals [3]int
	field := 0
	digits := 0
	for _, b := range data {
		switch {
		case b == ';':
			if digits == 0 || field == 2 {
				return 0, 0, 0, false
			}
			field++
			digits = 0
		case b >= '0' && b <= '9':
			vals[field] = vals[field]*10 + int(b-'0')
			digits++
			if vals[field] > 9999 {
				return 0, 0, 0, false
			}
		default:
			return 0, 0, 0, false
		}
	}
	if field != 2 || digits == 0 {
		return 0, 0, 0, false
	}
	return vals[0], vals[1], vals[2], true
}
