// Package app runs the interactive frame loop: wait for an event, let the gesture
// dispatcher interpret it, and repaint the whole table when something changed.
package app

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/ecstable/canvas"
	"github.com/lixenwraith/ecstable/core"
	"github.com/lixenwraith/ecstable/engine"
	"github.com/lixenwraith/ecstable/gesture"
	"github.com/lixenwraith/ecstable/render"
	"github.com/lixenwraith/ecstable/terminal"
)

// Options configures Run
type Options struct {
	Logger     *zap.Logger
	QuitKey    rune
	DumpCanvas bool
	OnSwap     gesture.SwapHook
}

// Run drives an initialized terminal until the quit key, a closed input or ctx cancellation
// The caller owns Init and Fini of term
func Run(ctx context.Context, term terminal.Terminal, w *engine.World, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	quitKey := opts.QuitKey
	if quitKey == 0 {
		quitKey = gesture.DefaultQuitKey
	}

	if err := term.SetMouseMode(terminal.MouseModeClick); err != nil {
		return fmt.Errorf("enable mouse: %w", err)
	}

	c := canvas.New(term.Size())
	d := gesture.NewDispatcher(w, c,
		gesture.WithQuitKey(quitKey),
		gesture.WithLogger(logger),
		gesture.WithSwapHook(opts.OnSwap),
	)

	// Cancellation is delivered as an ordinary event so the loop never blocks past it
	stop := context.AfterFunc(ctx, func() {
		term.PostEvent(terminal.Event{Type: terminal.EventClosed})
	})
	defer stop()

	l := &loop{term: term, world: w, canvas: c, logger: logger, dump: opts.DumpCanvas}

	redraw := true
	quit := false
	for !quit {
		if redraw {
			if err := l.frame(); err != nil {
				return err
			}
			redraw = false
		}

		ev := term.PollEvent()
		intent := d.Process(ev)
		switch intent.Type {
		case gesture.IntentQuit:
			quit = true
			if ev.Type == terminal.EventError && ev.Err != nil {
				return fmt.Errorf("terminal input: %w", ev.Err)
			}
		case gesture.IntentResize:
			logger.Debug("resize", zap.Int("width", intent.Width), zap.Int("height", intent.Height))
			c.Resize(intent.Width, intent.Height)
			redraw = true
		case gesture.IntentRedraw:
			redraw = true
		}
	}
	return nil
}

type loop struct {
	term   terminal.Terminal
	world  *engine.World
	canvas *canvas.Canvas
	logger *zap.Logger
	dump   bool
	frames int
}

// frame clears the screen and the canvas, then repaints everything
func (l *loop) frame() error {
	l.term.Clear()
	l.canvas.Clear()
	render.RenderWorld(l.world, l.canvas, l.term, core.Point{})
	if err := l.term.Flush(); err != nil {
		return fmt.Errorf("flush frame: %w", err)
	}
	l.frames++

	if l.dump {
		var buf bytes.Buffer
		if err := l.canvas.Dump(&buf); err == nil {
			l.logger.Debug("canvas", zap.Int("frame", l.frames), zap.String("occupancy", buf.String()))
		}
	}
	return nil
}
