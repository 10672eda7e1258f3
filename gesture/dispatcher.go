// Package gesture resolves pointer events through the hit-test canvas and turns
// a press followed by a release into a row-local cell swap.
package gesture

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/ecstable/canvas"
	"github.com/lixenwraith/ecstable/component"
	"github.com/lixenwraith/ecstable/core"
	"github.com/lixenwraith/ecstable/engine"
	"github.com/lixenwraith/ecstable/terminal"
)

// DefaultQuitKey ends the session when pressed without modifiers
const DefaultQuitKey = 'q'

// SwapHook is called after a committed swap of positions i and j in row
type SwapHook func(row core.Entity, i, j int)

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithQuitKey overrides the quit rune
func WithQuitKey(r rune) Option {
	return func(d *Dispatcher) {
		d.quitKey = r
	}
}

// WithLogger sets the logger for gesture traces and invariant failures
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithSwapHook registers a callback for committed swaps
func WithSwapHook(h SwapHook) Option {
	return func(d *Dispatcher) {
		d.onSwap = h
	}
}

// Dispatcher is the gesture state machine
// Only press and release are inspected; motion between them is ignored
type Dispatcher struct {
	world  *engine.World
	canvas *canvas.Canvas

	state   State
	pressed core.Entity // Held cell while StatePressed
	row     core.Entity // Parent row of pressed

	quitKey rune
	logger  *zap.Logger
	onSwap  SwapHook
	err     error
}

// NewDispatcher creates an idle dispatcher over w, resolving positions through c
func NewDispatcher(w *engine.World, c *canvas.Canvas, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		world:   w,
		canvas:  c,
		state:   StateIdle,
		quitKey: DefaultQuitKey,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current machine state
func (d *Dispatcher) State() State {
	return d.state
}

// Pressed returns the held cell and its row, EntityNone when idle
func (d *Dispatcher) Pressed() (cell, row core.Entity) {
	return d.pressed, d.row
}

// Err returns the last invariant violation hit while committing a swap
func (d *Dispatcher) Err() error {
	return d.err
}

// Process advances the machine with one terminal event
func (d *Dispatcher) Process(ev terminal.Event) Intent {
	switch ev.Type {
	case terminal.EventResize:
		if d.state == StatePressed {
			d.logger.Debug("gesture abandoned on resize", zap.Uint32("cell", uint32(d.pressed)))
		}
		d.reset()
		return Intent{Type: IntentResize, Width: ev.Width, Height: ev.Height}
	case terminal.EventKey:
		return d.processKey(ev)
	case terminal.EventMouse:
		return d.processMouse(ev)
	case terminal.EventClosed, terminal.EventError:
		d.reset()
		return Intent{Type: IntentQuit}
	}
	return Intent{}
}

func (d *Dispatcher) processKey(ev terminal.Event) Intent {
	if ev.Key == terminal.KeyRune && ev.Rune == d.quitKey && ev.Modifiers == terminal.ModNone {
		d.reset()
		return Intent{Type: IntentQuit}
	}
	return Intent{}
}

func (d *Dispatcher) processMouse(ev terminal.Event) Intent {
	if ev.MouseBtn == terminal.MouseBtnLeft {
		switch ev.MouseAction {
		case terminal.MouseActionPress:
			return d.press(ev.MouseX, ev.MouseY)
		case terminal.MouseActionRelease:
			return d.release(ev.MouseX, ev.MouseY)
		}
	}
	if ce := d.logger.Check(zap.DebugLevel, "mouse ignored"); ce != nil {
		ce.Write(zap.Stringer("button", ev.MouseBtn), zap.Stringer("action", ev.MouseAction))
	}
	return Intent{}
}

func (d *Dispatcher) press(x, y int) Intent {
	// A press while already pressed means the release was lost
	stale := d.state == StatePressed
	d.reset()

	cell, row, ok := d.resolveCell(x, y)
	if !ok {
		d.logger.Debug("press on no cell", zap.Int("x", x), zap.Int("y", y))
		if stale {
			return Intent{Type: IntentRedraw}
		}
		return Intent{}
	}

	d.world.AddMarker(cell, component.MarkerPressed)
	d.state = StatePressed
	d.pressed = cell
	d.row = row
	d.logger.Debug("press",
		zap.Int("x", x), zap.Int("y", y),
		zap.Uint32("cell", uint32(cell)), zap.Uint32("row", uint32(row)))
	return Intent{Type: IntentRedraw}
}

func (d *Dispatcher) release(x, y int) Intent {
	if d.state != StatePressed {
		return Intent{}
	}

	target, row, ok := d.resolveCell(x, y)
	if !ok {
		d.logger.Debug("release on no cell", zap.Int("x", x), zap.Int("y", y))
		d.reset()
		return Intent{Type: IntentRedraw}
	}

	d.world.AddMarker(target, component.MarkerReleased)
	d.logger.Debug("release",
		zap.Int("x", x), zap.Int("y", y),
		zap.Uint32("cell", uint32(target)), zap.Uint32("row", uint32(row)))

	if row == d.row {
		d.commit(target)
	}

	d.world.RemoveMarker(target, component.MarkerReleased)
	d.reset()
	return Intent{Type: IntentRedraw}
}

// commit swaps the held cell with target inside the held row
func (d *Dispatcher) commit(target core.Entity) {
	i := d.world.CellIndex(d.row, d.pressed)
	j := d.world.CellIndex(d.row, target)
	var err error
	if i < 0 || j < 0 {
		err = fmt.Errorf("cells %d and %d missing from row %d: %w", d.pressed, target, d.row, engine.ErrInvariant)
	} else {
		err = d.world.SwapCellsInRow(d.row, i, j)
	}
	if err != nil {
		d.err = err
		d.logger.Error("swap rejected", zap.Error(err))
		return
	}
	if i == j {
		return
	}
	d.logger.Debug("swap", zap.Uint32("row", uint32(d.row)), zap.Int("from", i), zap.Int("to", j))
	if d.onSwap != nil {
		d.onSwap(d.row, i, j)
	}
}

// resolveCell maps a screen position to a live cell and its row
// Empty slots, headers and stale handles resolve to nothing
func (d *Dispatcher) resolveCell(x, y int) (cell, row core.Entity, ok bool) {
	e, hit := d.canvas.Lookup(x, y)
	if !hit || d.world.Kind(e) != engine.KindCell {
		return core.EntityNone, core.EntityNone, false
	}
	row = d.world.Parent(e)
	if d.world.Kind(row) != engine.KindRow {
		return core.EntityNone, core.EntityNone, false
	}
	return e, row, true
}

// reset drops any held cell and returns to idle
func (d *Dispatcher) reset() {
	if d.pressed != core.EntityNone {
		d.world.RemoveMarker(d.pressed, component.MarkerTransient)
	}
	d.state = StateIdle
	d.pressed = core.EntityNone
	d.row = core.EntityNone
}
