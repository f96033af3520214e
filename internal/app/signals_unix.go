//go:build !windows

package app

import (
	"os"
	"syscall"
)

// shutdownSignals are the OS signals that stop `ccflags serve`.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
