//go:build windows

package app

import "os"

// shutdownSignals are the OS signals that stop `ccflags serve`.
var shutdownSignals = []os.Signal{os.Interrupt}
