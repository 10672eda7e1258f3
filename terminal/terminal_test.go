package terminal

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records output and serves scripted input
type fakeBackend struct {
	mu       sync.Mutex
	out      bytes.Buffer
	input    chan []byte
	resize   func(w, h int)
	inited   bool
	finished int
	w, h     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{input: make(chan []byte, 8), w: 40, h: 10}
}

func (f *fakeBackend) Init() error { f.inited = true; return nil }
func (f *fakeBackend) Fini()       { f.finished++ }
func (f *fakeBackend) Size() (int, int) {
	return f.w, f.h
}

func (f *fakeBackend) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Write(p)
}

func (f *fakeBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-stopCh:
		return nil, nil
	case d, ok := <-f.input:
		if !ok {
			return nil, errInputClosed
		}
		return d, nil
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

func (f *fakeBackend) SetResizeHandler(h func(w, h int)) { f.resize = h }

func (f *fakeBackend) output() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

func TestTerminal_InitFiniSequences(t *testing.T) {
	b := newFakeBackend()
	term := newWithBackend(b)
	require.NoError(t, term.Init())
	require.True(t, b.inited)

	out := b.output()
	assert.Contains(t, out, string(csiAltScreenEnter))
	assert.Contains(t, out, string(csiCursorHide))
	assert.Contains(t, out, string(csiAutoWrapOff))

	require.NoError(t, term.SetMouseMode(MouseModeClick))
	assert.Contains(t, b.output(), string(csiMouseSGROn)+string(csiMouseClickOn))

	term.Fini()
	term.Fini()
	assert.Equal(t, 1, b.finished, "Fini must be idempotent")

	out = b.output()
	mouseOff := strings.LastIndex(out, string(csiMouseClickOff))
	altExit := strings.LastIndex(out, string(csiAltScreenExit))
	wrapOn := strings.LastIndex(out, string(csiAutoWrapOn))
	require.True(t, mouseOff >= 0 && altExit >= 0 && wrapOn >= 0)
	assert.Less(t, mouseOff, altExit, "mouse reporting is disabled before leaving the alternate screen")
	assert.Less(t, altExit, wrapOn, "autowrap is restored on the main screen")
	assert.True(t, strings.HasSuffix(out, string(csiSGR0)))
}

func TestTerminal_OutputPrimitives(t *testing.T) {
	b := newFakeBackend()
	term := newWithBackend(b)
	require.NoError(t, term.Init())
	defer term.Fini()

	before := len(b.output())
	term.Clear()
	term.MoveCursor(5, 2)
	term.WriteText("Ann,\x1b[2J")
	assert.Equal(t, before, len(b.output()), "nothing reaches the terminal before Flush")

	require.NoError(t, term.Flush())
	frame := b.output()[before:]
	assert.Equal(t, string(csiSGR0)+string(csiClear)+"\x1b[3;6H"+"Ann, [2J", frame)
}

func TestTerminal_PollEvent(t *testing.T) {
	b := newFakeBackend()
	term := newWithBackend(b)
	require.NoError(t, term.Init())
	defer term.Fini()

	b.input <- []byte("\x1b[<0;2;3M")
	ev := term.PollEvent()
	assert.Equal(t, EventMouse, ev.Type)
	assert.Equal(t, MouseBtnLeft, ev.MouseBtn)
	assert.Equal(t, 1, ev.MouseX)
	assert.Equal(t, 2, ev.MouseY)

	b.resize(100, 30)
	ev = term.PollEvent()
	assert.Equal(t, Event{Type: EventResize, Width: 100, Height: 30}, ev)

	term.PostEvent(Event{Type: EventClosed})
	assert.Equal(t, EventClosed, term.PollEvent().Type)
}

func TestTerminal_InputClosed(t *testing.T) {
	b := newFakeBackend()
	term := newWithBackend(b)
	require.NoError(t, term.Init())
	defer term.Fini()

	close(b.input)
	assert.Equal(t, EventClosed, term.PollEvent().Type)
}

func TestEmergencyReset(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)
	out := buf.String()
	assert.Contains(t, out, string(csiMouseClickOff))
	assert.Contains(t, out, string(csiCursorShow))
	assert.Contains(t, out, string(csiAltScreenExit))
	assert.Contains(t, out, string(csiSGR0))
}
