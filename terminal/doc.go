// Package terminal provides the terminal session used by the table viewer.
//
// Two implementations share the Terminal interface:
//   - New: direct ANSI control over stdin/stdout (raw mode via x/term, SGR mouse
//     reporting, SIGWINCH resize, alternate screen)
//   - NewTcell: the same contract on top of a tcell.Screen
//
// Output is immediate mode: callers position the cursor, write text and flush once per frame.
// Fini and EmergencyReset restore the terminal on every exit path.
package terminal
