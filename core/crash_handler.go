package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/ecstable/terminal"
)

var (
	crashMu       sync.Mutex
	crashTerminal terminal.Terminal
	crashHooks    []func()

	emergencyReset = func() { terminal.EmergencyReset(os.Stdout) }
)

// SetCrashTerminal registers the active session so a panic can restore it
// Pass nil once the session has been torn down normally
func SetCrashTerminal(t terminal.Terminal) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashTerminal = t
}

// OnCrash registers fn to run after the terminal is restored, e.g. a logger sync
func OnCrash(fn func()) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashHooks = append(crashHooks, fn)
}

// HandleCrash restores the terminal, prints the panic with its stack and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}
	restoreAfterCrash(r, os.Stderr)
	os.Exit(1)
}

func restoreAfterCrash(r any, w io.Writer) {
	crashMu.Lock()
	t := crashTerminal
	hooks := crashHooks
	crashMu.Unlock()

	// Nothing registered means no session is live, or it was already restored
	if t != nil && !finiRecovered(t) {
		emergencyReset()
	}

	for _, fn := range hooks {
		fn()
	}

	fmt.Fprintf(w, "\n\x1b[31mECSTABLE CRASHED: %v\x1b[0m\n", r)
	fmt.Fprintf(w, "Stack Trace:\n%s\n", debug.Stack())
}

// finiRecovered runs Fini and reports false if it panicked part way through
func finiRecovered(t terminal.Terminal) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	t.Fini()
	return true
}
