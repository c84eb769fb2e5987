package common

import (
	"errors"
	"fmt"
)

// ErrModulePaused is returned by Guard for administratively paused modules.
var ErrModulePaused = errors.New("module paused")

// PauseView reports whether a named native module is administratively paused.
// The daemon backs it with configuration; tests use literal maps.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard is checked at the head of every mutating engine operation. It rejects
// the call while the module is paused, naming the module so operators can tell
// which switch tripped. A nil view or empty module name disables the check.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return fmt.Errorf("%w: %s", ErrModulePaused, module)
	}
	return nil
}
