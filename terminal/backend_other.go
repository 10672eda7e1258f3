//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package terminal

import "errors"

var errUnsupported = errors.New("ansi terminal backend is not supported on this platform, use the tcell backend")

type unsupportedBackend struct{}

func newBackend() Backend { return unsupportedBackend{} }

func (unsupportedBackend) Init() error                              { return errUnsupported }
func (unsupportedBackend) Fini()                                    {}
func (unsupportedBackend) Size() (int, int)                         { return 80, 24 }
func (unsupportedBackend) Write(p []byte) (int, error)              { return len(p), nil }
func (unsupportedBackend) Read(<-chan struct{}) ([]byte, error)     { return nil, errUnsupported }
func (unsupportedBackend) SetResizeHandler(func(width, height int)) {}

func resetTerminalMode() {}
