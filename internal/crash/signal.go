// Package crash implements the error handler and crash UI (C13): a
// signal-safe flag set on SIGSEGV/SIGFPE, inspected by the main event loop
// rather than acted on inside the handler, and a minimal override-redirect
// popup offering exit-with-core-dump or re-exec.
package crash

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/syndtr/gocapability/capability"
	"golang.org/x/sys/unix"
)

// Handler owns the signal channel and the async-safe tripped flag. The
// channel delivery itself is the Go runtime's own signal-safe dispatch;
// nothing here runs inside actual signal context, matching the redesign
// note that a handler must not reach into live X state directly.
type Handler struct {
	sigs    chan os.Signal
	tripped int32
	last    os.Signal
}

// watchedSignals is the exact signal set named by the spec: SIGSEGV and
// SIGFPE, the two synchronous faults worth a crash popup rather than a
// plain exit.
var watchedSignals = []os.Signal{syscall.SIGSEGV, syscall.SIGFPE}

// Install registers the signal channel and returns a Handler. Receive
// from Chan() in the main loop's select and call Trip (§5: wake-ups
// are drained by the single cooperative loop, never from a separate
// goroutine reaching into state).
func Install() *Handler {
	h := &Handler{sigs: make(chan os.Signal, 1)}
	signal.Notify(h.sigs, watchedSignals...)
	return h
}

// Chan exposes the underlying channel so the caller's main select can wait
// on it alongside the X connection fd and the IPC listener.
func (h *Handler) Chan() <-chan os.Signal { return h.sigs }

// Trip records that sig arrived; called from the main loop immediately
// after a receive on Chan(), before any crash-UI work begins.
func (h *Handler) Trip(sig os.Signal) {
	atomic.StoreInt32(&h.tripped, 1)
	h.last = sig
}

// Tripped reports whether a watched signal has fired and not yet been
// resolved by ReRaise or ReExec.
func (h *Handler) Tripped() bool {
	return atomic.LoadInt32(&h.tripped) != 0
}

// ReRaise restores the signal's default disposition (the SA_RESETHAND
// half of the installed behavior) and re-sends it to the process, which
// now terminates with a core dump if RLIMIT_CORE allows one.
func (h *Handler) ReRaise() error {
	signal.Reset(h.last)
	return unix.Kill(os.Getpid(), h.last.(syscall.Signal))
}

// ReExec replaces the process image in place with the same binary and
// arguments, the "r" choice in the crash popup.
func ReExec() error {
	self, err := os.Executable()
	if err != nil {
		return err
	}
	return syscall.Exec(self, os.Args, os.Environ())
}

// hasCapSysResource reports whether the running process holds
// CAP_SYS_RESOURCE, the capability that lets RLIMIT_CORE be raised past
// its current hard limit. Adapted from the teacher's capability.go
// (hasCapSysResource), which makes the same check to gate raising
// RLIMIT_RTTIME rather than RLIMIT_CORE.
func hasCapSysResource() bool {
	caps, err := capability.NewPid2(0)
	if err != nil {
		return false
	}
	if err := caps.Load(); err != nil {
		return false
	}
	return caps.Get(capability.EFFECTIVE, capability.CAP_SYS_RESOURCE)
}

// EnsureCoreDumpsEnabled raises RLIMIT_CORE to its hard limit (or, with
// CAP_SYS_RESOURCE, to unlimited) so that ReRaise's core dump is actually
// written. A core dump is only useful if the process is allowed to
// produce one, so main runs this once at startup, right after Install.
func EnsureCoreDumpsEnabled() error {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_CORE, &rlim); err != nil {
		return err
	}
	const maxUint64 = ^uint64(0)
	want := rlim.Max
	if hasCapSysResource() {
		want = maxUint64
	}
	if rlim.Cur >= want {
		return nil
	}
	rlim.Cur = want
	return unix.Setrlimit(unix.RLIMIT_CORE, &rlim)
}
