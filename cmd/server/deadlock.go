package main

import (
	"log/slog"
	"time"

	"github.com/algorand/go-deadlock"
)

// configureDeadlockDetection must run before any lock is taken. A zero
// timeout disables detection. Reports are logged instead of exiting.
func configureDeadlockDetection(timeout time.Duration) {
	if timeout == 0 {
		deadlock.Opts.Disable = true
		return
	}
	deadlock.Opts.Disable = false
	deadlock.Opts.DeadlockTimeout = timeout
	deadlock.Opts.OnPotentialDeadlock = func() {
		slog.Error("Potential deadlock detected", "timeout", timeout)
	}
}
