package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimTerm(t *testing.T) (Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term, err := NewTcell(screen)
	require.NoError(t, err)
	require.NoError(t, term.Init())
	screen.SetSize(20, 5)
	t.Cleanup(term.Fini)
	return term, screen
}

// poll returns the next event that is not a resize; SetSize may queue one on some tcell versions
func poll(term Terminal) Event {
	for {
		if ev := term.PollEvent(); ev.Type != EventResize {
			return ev
		}
	}
}

func simRow(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	row := make([]rune, 0, w)
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			row = append(row, ' ')
			continue
		}
		row = append(row, c.Runes[0])
	}
	return string(row)
}

func TestTcell_WriteTextTruncatesAtEdge(t *testing.T) {
	term, screen := newSimTerm(t)

	term.Clear()
	term.MoveCursor(15, 1)
	term.WriteText("abcdefgh")
	require.NoError(t, term.Flush())

	assert.Equal(t, "               abcde", simRow(screen, 1))
}

func TestTcell_MousePressRelease(t *testing.T) {
	term, screen := newSimTerm(t)
	require.NoError(t, term.SetMouseMode(MouseModeClick))

	screen.InjectMouse(3, 2, tcell.Button1, tcell.ModNone)
	screen.InjectMouse(7, 2, tcell.Button1, tcell.ModNone)
	screen.InjectMouse(8, 3, tcell.ButtonNone, tcell.ModNone)
	screen.InjectMouse(9, 3, tcell.ButtonNone, tcell.ModNone)

	ev := poll(term)
	assert.Equal(t, EventMouse, ev.Type)
	assert.Equal(t, MouseBtnLeft, ev.MouseBtn)
	assert.Equal(t, MouseActionPress, ev.MouseAction)
	assert.Equal(t, 3, ev.MouseX)
	assert.Equal(t, 2, ev.MouseY)

	ev = poll(term)
	assert.Equal(t, MouseActionDrag, ev.MouseAction)

	ev = poll(term)
	assert.Equal(t, MouseBtnLeft, ev.MouseBtn)
	assert.Equal(t, MouseActionRelease, ev.MouseAction)
	assert.Equal(t, 8, ev.MouseX)
	assert.Equal(t, 3, ev.MouseY)

	ev = poll(term)
	assert.Equal(t, MouseActionMove, ev.MouseAction)
}

func TestTcell_Keys(t *testing.T) {
	term, screen := newSimTerm(t)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModAlt)

	assert.Equal(t, Event{Type: EventKey, Key: KeyRune, Rune: 'q'}, poll(term))

	ev := poll(term)
	assert.Equal(t, 'q', ev.Rune)
	assert.NotZero(t, ev.Modifiers&ModCtrl)

	ev = poll(term)
	assert.Equal(t, KeyRune, ev.Key)
	assert.Equal(t, ModAlt, ev.Modifiers)
}

func TestTcell_PostEventAndResize(t *testing.T) {
	term, screen := newSimTerm(t)

	term.PostEvent(Event{Type: EventClosed})
	assert.Equal(t, EventClosed, poll(term).Type)

	require.NoError(t, screen.PostEvent(tcell.NewEventResize(30, 8)))
	ev := term.PollEvent()
	assert.Equal(t, Event{Type: EventResize, Width: 30, Height: 8}, ev)
}
