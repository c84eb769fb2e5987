package common

import (
	"errors"
	"strings"
	"testing"
)

type pauseMap map[string]bool

func (p pauseMap) IsPaused(module string) bool { return p[module] }

func TestGuard(t *testing.T) {
	if err := Guard(nil, "contest"); err != nil {
		t.Fatalf("nil view should disable the check, got %v", err)
	}
	if err := Guard(pauseMap{"contest": true}, ""); err != nil {
		t.Fatalf("empty module should disable the check, got %v", err)
	}
	if err := Guard(pauseMap{"contest": true}, "staking"); err != nil {
		t.Fatalf("unpaused module should pass, got %v", err)
	}

	err := Guard(pauseMap{"contest": true}, "contest")
	if !errors.Is(err, ErrModulePaused) {
		t.Fatalf("expected ErrModulePaused, got %v", err)
	}
	if !strings.Contains(err.Error(), "contest") {
		t.Fatalf("error should name the module: %v", err)
	}
}
