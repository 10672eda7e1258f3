package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/ecstable/canvas"
	"github.com/lixenwraith/ecstable/component"
	"github.com/lixenwraith/ecstable/core"
	"github.com/lixenwraith/ecstable/engine"
	"github.com/lixenwraith/ecstable/render"
	"github.com/lixenwraith/ecstable/terminal"
)

type discard struct{}

func (discard) MoveCursor(int, int) {}
func (discard) WriteText(string)    {}

type fixture struct {
	world  *engine.World
	table  core.Entity
	canvas *canvas.Canvas
	d      *Dispatcher
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	w := engine.NewWorld()
	table, err := engine.Build(w, []string{"Name", "Age"}, [][]string{{"Ann", "30"}, {"Bo", "25"}})
	require.NoError(t, err)
	f := &fixture{world: w, table: table, canvas: canvas.New(40, 10)}
	f.d = NewDispatcher(w, f.canvas, opts...)
	f.redraw()
	return f
}

func (f *fixture) redraw() {
	f.canvas.Clear()
	render.Render(f.world, f.table, f.canvas, discard{}, core.Point{})
}

// at returns the first screen position painted by the element with the given text
func (f *fixture) at(t *testing.T, text string) (int, int) {
	t.Helper()
	w, h := f.canvas.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			e, ok := f.canvas.Lookup(x, y)
			if !ok {
				continue
			}
			if got, _ := f.world.Text(e); got == text {
				return x, y
			}
		}
	}
	t.Fatalf("text %q not on canvas", text)
	return 0, 0
}

func (f *fixture) mouse(action terminal.MouseAction, x, y int) Intent {
	return f.d.Process(terminal.Event{
		Type:        terminal.EventMouse,
		MouseBtn:    terminal.MouseBtnLeft,
		MouseAction: action,
		MouseX:      x,
		MouseY:      y,
	})
}

func (f *fixture) drag(t *testing.T, from, to string) {
	t.Helper()
	x, y := f.at(t, from)
	f.mouse(terminal.MouseActionPress, x, y)
	f.redraw()
	x, y = f.at(t, to)
	f.mouse(terminal.MouseActionRelease, x, y)
	f.redraw()
}

func (f *fixture) assertClean(t *testing.T) {
	t.Helper()
	assert.Equal(t, StateIdle, f.d.State())
	assert.Empty(t, f.world.Marked(component.MarkerTransient), "no transient markers after a resolved gesture")
	require.NoError(t, f.world.CheckTable(f.table))
}

func TestScenarioA_CrossRowByName(t *testing.T) {
	f := newFixture(t)
	f.drag(t, "Ann", "Bo")

	assert.Equal(t, [][]string{{"Ann", "30"}, {"Bo", "25"}}, f.world.RowTexts(f.table))
	f.assertClean(t)
}

func TestScenarioB_CrossRowSecondColumn(t *testing.T) {
	f := newFixture(t)
	f.drag(t, "30", "25")

	assert.Equal(t, [][]string{{"Ann", "30"}, {"Bo", "25"}}, f.world.RowTexts(f.table))
	f.assertClean(t)
}

func TestScenarioC_SameRowSwap(t *testing.T) {
	var swaps [][2]int
	f := newFixture(t, WithSwapHook(func(row core.Entity, i, j int) {
		swaps = append(swaps, [2]int{i, j})
	}))
	f.drag(t, "Ann", "30")

	assert.Equal(t, [][]string{{"30", "Ann"}, {"Bo", "25"}}, f.world.RowTexts(f.table))
	assert.Equal(t, [][2]int{{0, 1}}, swaps)
	assert.NoError(t, f.d.Err())
	f.assertClean(t)

	// Swapping back restores the initial order
	f.drag(t, "Ann", "30")
	assert.Equal(t, [][]string{{"Ann", "30"}, {"Bo", "25"}}, f.world.RowTexts(f.table))
}

func TestScenarioD_PressOnEmptySpace(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, Intent{}, f.mouse(terminal.MouseActionPress, 35, 2))
	assert.Equal(t, StateIdle, f.d.State())

	x, y := f.at(t, "Ann")
	assert.Equal(t, Intent{}, f.mouse(terminal.MouseActionRelease, x, y))

	assert.Equal(t, [][]string{{"Ann", "30"}, {"Bo", "25"}}, f.world.RowTexts(f.table))
	assert.NoError(t, f.d.Err())
	f.assertClean(t)
}

func TestScenarioE_ResizeAbandonsGesture(t *testing.T) {
	f := newFixture(t)

	x, y := f.at(t, "Ann")
	require.Equal(t, IntentRedraw, f.mouse(terminal.MouseActionPress, x, y).Type)
	require.Equal(t, StatePressed, f.d.State())
	cell, _ := f.d.Pressed()
	assert.True(t, f.world.HasMarker(cell, component.MarkerPressed))

	intent := f.d.Process(terminal.Event{Type: terminal.EventResize, Width: 50, Height: 12})
	assert.Equal(t, Intent{Type: IntentResize, Width: 50, Height: 12}, intent)
	assert.Equal(t, StateIdle, f.d.State())
	assert.False(t, f.world.HasMarker(cell, component.MarkerPressed))

	f.canvas.Resize(intent.Width, intent.Height)
	f.redraw()

	// Release of the abandoned press does nothing
	x, y = f.at(t, "30")
	assert.Equal(t, Intent{}, f.mouse(terminal.MouseActionRelease, x, y))
	assert.Equal(t, [][]string{{"Ann", "30"}, {"Bo", "25"}}, f.world.RowTexts(f.table))

	// The next click starts a fresh gesture
	f.drag(t, "30", "Ann")
	assert.Equal(t, [][]string{{"30", "Ann"}, {"Bo", "25"}}, f.world.RowTexts(f.table))
	f.assertClean(t)
}

func TestPressOnHeaderIsNoop(t *testing.T) {
	f := newFixture(t)
	x, y := f.at(t, "Name")

	assert.Equal(t, Intent{}, f.mouse(terminal.MouseActionPress, x, y))
	assert.Equal(t, StateIdle, f.d.State())
	f.assertClean(t)
}

func TestReleaseOnHeaderCancels(t *testing.T) {
	f := newFixture(t)
	x, y := f.at(t, "Ann")
	f.mouse(terminal.MouseActionPress, x, y)

	x, y = f.at(t, "Age")
	assert.Equal(t, IntentRedraw, f.mouse(terminal.MouseActionRelease, x, y).Type)
	assert.Equal(t, [][]string{{"Ann", "30"}, {"Bo", "25"}}, f.world.RowTexts(f.table))
	f.assertClean(t)
}

func TestReleaseOnSameCell(t *testing.T) {
	called := false
	f := newFixture(t, WithSwapHook(func(core.Entity, int, int) { called = true }))
	f.drag(t, "Bo", "Bo")

	assert.False(t, called)
	assert.Equal(t, [][]string{{"Ann", "30"}, {"Bo", "25"}}, f.world.RowTexts(f.table))
	f.assertClean(t)
}

func TestPressedCellIsBracketed(t *testing.T) {
	f := newFixture(t)
	x, y := f.at(t, "Bo")
	f.mouse(terminal.MouseActionPress, x, y)
	f.redraw()

	// "[Bo], " is two columns wider than "Bo, "
	e, ok := f.canvas.Lookup(5, y)
	require.True(t, ok)
	text, _ := f.world.Text(e)
	assert.Equal(t, "Bo", text)
}

func TestDoublePressReplacesHeldCell(t *testing.T) {
	f := newFixture(t)
	x, y := f.at(t, "Ann")
	f.mouse(terminal.MouseActionPress, x, y)
	first, _ := f.d.Pressed()

	x, y = f.at(t, "Bo")
	f.mouse(terminal.MouseActionPress, x, y)
	second, _ := f.d.Pressed()

	assert.NotEqual(t, first, second)
	assert.False(t, f.world.HasMarker(first, component.MarkerPressed))
	assert.Equal(t, []core.Entity{second}, f.world.Marked(component.MarkerPressed))
}

func TestIgnoredEvents(t *testing.T) {
	f := newFixture(t)
	x, y := f.at(t, "Ann")

	events := []terminal.Event{
		{Type: terminal.EventMouse, MouseBtn: terminal.MouseBtnRight, MouseAction: terminal.MouseActionPress, MouseX: x, MouseY: y},
		{Type: terminal.EventMouse, MouseBtn: terminal.MouseBtnWheelUp, MouseAction: terminal.MouseActionPress, MouseX: x, MouseY: y},
		{Type: terminal.EventMouse, MouseBtn: terminal.MouseBtnLeft, MouseAction: terminal.MouseActionDrag, MouseX: x, MouseY: y},
		{Type: terminal.EventMouse, MouseBtn: terminal.MouseBtnNone, MouseAction: terminal.MouseActionMove, MouseX: x, MouseY: y},
		{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x'},
		{Type: terminal.EventKey, Key: terminal.KeyEnter},
		{Type: terminal.EventKey, Key: terminal.KeyCtrl, Rune: 'c', Modifiers: terminal.ModCtrl},
		{Type: terminal.EventNone},
	}
	for _, ev := range events {
		assert.Equal(t, Intent{}, f.d.Process(ev), "%+v", ev)
	}
	f.assertClean(t)
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		ev   terminal.Event
		want IntentType
	}{
		{"quit key", nil, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'}, IntentQuit},
		{"custom quit key", []Option{WithQuitKey('x')}, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x'}, IntentQuit},
		{"replaced default", []Option{WithQuitKey('x')}, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'}, IntentNone},
		{"alt modifier", nil, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q', Modifiers: terminal.ModAlt}, IntentNone},
		{"ctrl modifier", nil, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyCtrl, Rune: 'q', Modifiers: terminal.ModCtrl}, IntentNone},
		{"shifted", nil, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'Q'}, IntentNone},
		{"closed", nil, terminal.Event{Type: terminal.EventClosed}, IntentQuit},
		{"error", nil, terminal.Event{Type: terminal.EventError}, IntentQuit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts...)
			x, y := f.at(t, "Ann")
			f.mouse(terminal.MouseActionPress, x, y)

			assert.Equal(t, tt.want, f.d.Process(tt.ev).Type)
			if tt.want == IntentQuit {
				f.assertClean(t)
			}
		})
	}
}

func TestStaleCanvasEntry(t *testing.T) {
	f := newFixture(t)
	f.canvas.Paint(core.Entity(9999), 0, 8, 5)
	f.canvas.Paint(f.table, 10, 8, 5)

	assert.Equal(t, Intent{}, f.mouse(terminal.MouseActionPress, 1, 8))
	assert.Equal(t, Intent{}, f.mouse(terminal.MouseActionPress, 11, 8))

	x, y := f.at(t, "Ann")
	f.mouse(terminal.MouseActionPress, x, y)
	assert.Equal(t, IntentRedraw, f.mouse(terminal.MouseActionRelease, 1, 8).Type)
	f.assertClean(t)
}

func TestInvariantViolationReported(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	f := newFixture(t, WithLogger(zap.New(obs)))

	tc, _ := f.world.Tables.Get(f.table)
	first := tc.Rows[0]
	rc, _ := f.world.Rows.Get(first)
	ann := rc.Cells[0]

	x, y := f.at(t, "Ann")
	f.mouse(terminal.MouseActionPress, x, y)
	tx, ty := f.at(t, "30")

	// Drop "30" from its row behind the canvas's back
	f.world.Rows.Set(first, component.RowComponent{Cells: []core.Entity{ann}})
	assert.Equal(t, IntentRedraw, f.mouse(terminal.MouseActionRelease, tx, ty).Type)

	assert.ErrorIs(t, f.d.Err(), engine.ErrInvariant)
	assert.Equal(t, 1, logs.FilterMessage("swap rejected").Len())
	assert.Equal(t, []string{"Ann"}, f.world.RowTexts(f.table)[0])
	assert.Equal(t, StateIdle, f.d.State())
}

func TestTraceLogging(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	f := newFixture(t, WithLogger(zap.New(obs)))
	f.drag(t, "Ann", "30")

	assert.Equal(t, 1, logs.FilterMessage("press").Len())
	assert.Equal(t, 1, logs.FilterMessage("release").Len())
	assert.Equal(t, 1, logs.FilterMessage("swap").Len())

	f.d.Process(terminal.Event{Type: terminal.EventMouse, MouseBtn: terminal.MouseBtnRight, MouseAction: terminal.MouseActionPress})
	ignored := logs.FilterMessage("mouse ignored").All()
	require.Len(t, ignored, 1)
	assert.Equal(t, "Right", ignored[0].ContextMap()["button"])
	assert.Equal(t, "Press", ignored[0].ContextMap()["action"])
}
