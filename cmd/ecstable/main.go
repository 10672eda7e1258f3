package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/ecstable/core"
)

func main() {
	// Panic recovery: restore the terminal even if the session crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ecstable: %v\n", err)
		os.Exit(1)
	}
}
