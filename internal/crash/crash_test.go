package crash

import (
	"syscall"
	"testing"
)

func TestHandlerTripRecordsSignal(t *testing.T) {
	h := Install()
	if h.Tripped() {
		t.Fatalf("freshly installed handler should not be tripped")
	}
	h.Trip(syscall.SIGSEGV)
	if !h.Tripped() {
		t.Fatalf("Trip should mark the handler tripped")
	}
	if h.last != syscall.SIGSEGV {
		t.Fatalf("Trip should record the signal, got %v", h.last)
	}
}

func TestChoiceForKeycodeMatchesEAndR(t *testing.T) {
	eKeycodes := []byte{26}
	rKeycodes := []byte{27}

	if got := choiceForKeycode(eKeycodes, rKeycodes, 26); got != ChoiceReRaise {
		t.Fatalf("keycode matching e's mapping should resolve to ChoiceReRaise, got %v", got)
	}
	if got := choiceForKeycode(eKeycodes, rKeycodes, 27); got != ChoiceReExec {
		t.Fatalf("keycode matching r's mapping should resolve to ChoiceReExec, got %v", got)
	}
	if got := choiceForKeycode(eKeycodes, rKeycodes, 99); got != ChoiceNone {
		t.Fatalf("unrelated keycode should resolve to ChoiceNone, got %v", got)
	}
}

func TestHasCapSysResourceDoesNotPanic(t *testing.T) {
	_ = hasCapSysResource()
}
