// Package audio plays a short tone through a system PCM player whenever a swap is committed.
// When no player is installed the feedback runs in silent mode.
package audio

import (
	"io"
	"os/exec"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/ecstable/core"
)

const queueSize = 4

// Feedback pipes tones to a backend process from a single writer goroutine
// Play never blocks the caller; tones are dropped when the queue is full
type Feedback struct {
	logger *zap.Logger
	pcm    []byte

	backend *BackendConfig
	cmd     *exec.Cmd
	out     io.WriteCloser

	queue chan []byte
	stop  chan struct{}

	running atomic.Bool
	silent  atomic.Bool
	played  atomic.Uint64
	dropped atomic.Uint64

	wg sync.WaitGroup
}

// NewFeedback prepares the tone; nothing runs until Start
func NewFeedback(logger *zap.Logger, tone Tone) *Feedback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feedback{
		logger: logger,
		pcm:    tone.PCM(),
		queue:  make(chan []byte, queueSize),
		stop:   make(chan struct{}),
	}
}

// Start launches the backend; a missing or failing backend switches to silent mode, not an error
func (f *Feedback) Start() error {
	if f.running.Load() {
		return nil
	}

	backend, err := DetectBackend()
	if err != nil {
		f.logger.Info("audio disabled", zap.Error(err))
		f.silent.Store(true)
		f.running.Store(true)
		return nil
	}

	cmd := exec.Command(backend.Path, backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		f.silent.Store(true)
		f.running.Store(true)
		return nil
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		f.logger.Warn("audio backend failed to start", zap.String("backend", backend.Name), zap.Error(err))
		f.silent.Store(true)
		f.running.Store(true)
		return nil
	}

	f.backend = backend
	f.cmd = cmd
	f.logger.Debug("audio backend started", zap.String("backend", backend.Name))

	f.wg.Add(1)
	go f.monitorProcess()

	f.startWith(stdin)
	return nil
}

// startWith runs the writer loop over out
func (f *Feedback) startWith(out io.WriteCloser) {
	f.out = out
	f.running.Store(true)
	f.wg.Add(1)
	go f.loop()
}

func (f *Feedback) loop() {
	defer f.wg.Done()
	for {
		select {
		case <-f.stop:
			return
		case buf := <-f.queue:
			if _, err := f.out.Write(buf); err != nil {
				if f.running.Load() {
					f.logger.Warn("audio pipe failed", zap.Error(err))
				}
				f.silent.Store(true)
				return
			}
			f.played.Add(1)
		}
	}
}

// monitorProcess watches for subprocess exit
func (f *Feedback) monitorProcess() {
	defer f.wg.Done()
	if err := f.cmd.Wait(); err != nil && f.running.Load() {
		f.silent.Store(true)
	}
}

// Play queues the tone, false when silent or the queue is full
func (f *Feedback) Play() bool {
	if !f.running.Load() || f.silent.Load() {
		return false
	}
	select {
	case f.queue <- f.pcm:
		return true
	default:
		f.dropped.Add(1)
		return false
	}
}

// Swap matches the gesture swap hook signature
func (f *Feedback) Swap(core.Entity, int, int) {
	f.Play()
}

// Silent reports whether tones are being discarded
func (f *Feedback) Silent() bool {
	return f.silent.Load()
}

// Stats returns played and dropped counts
func (f *Feedback) Stats() (played, dropped uint64) {
	return f.played.Load(), f.dropped.Load()
}

// Stop terminates the writer and the backend process; safe to call more than once
func (f *Feedback) Stop() {
	if !f.running.CompareAndSwap(true, false) {
		return
	}
	close(f.stop)
	if f.out != nil {
		f.out.Close()
	}
	if f.cmd != nil && f.cmd.Process != nil {
		f.cmd.Process.Kill()
	}
	f.wg.Wait()
}
