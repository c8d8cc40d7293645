package app

import (
	"github.com/MordecaiM24/meridian/internal/experience"
	"github.com/MordecaiM24/meridian/internal/library"
)

// HealthCheckedMsg reports whether the workflow service is reachable.
type HealthCheckedMsg struct {
	Up  bool
	Err error
}

// OpDoneMsg is sent when a library operation settles. It carries a
// fresh snapshot of the list and the status machine so the model never
// reads the library while an operation could be running.
type OpDoneMsg struct {
	Experiences []experience.Experience
	Status      library.Status
}

// ClearStatusMsg clears a settled status line after a delay.
type ClearStatusMsg struct{}
