package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/command"
	"github.com/i3/i3-sub000/internal/config"
	"github.com/i3/i3-sub000/internal/crash"
	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/ipc"
	"github.com/i3/i3-sub000/internal/keys"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/output"
	"github.com/i3/i3-sub000/internal/wm"
	"github.com/i3/i3-sub000/internal/x11"
)

// loop owns everything the single cooperative event dispatch needs on
// hand; every X event, IPC request and signal is handled from the one
// goroutine running run(), the way the teacher keeps UI mutation on a
// single goroutine in _teacher_ref/ui.go.
type loop struct {
	conn  *x11.Conn
	state *model.State
	mgr   *wm.Manager
	trans *keys.Translator
	ex    *command.Executor
	cfg   *config.Config
	ipc   *ipc.Server
	crash *crash.Handler

	xevents chan xevent

	crashUI *crash.UI
}

// logDrawer stands in for the external font/draw service (C4) the crash
// popup leaves as a narrow interface; it just logs what would be drawn.
type logDrawer struct{}

func (logDrawer) DrawText(win xproto.Window, rect geom.Rect, text string) {
	log.Printf("crash popup on %v: %s", win, text)
}

type xevent struct {
	ev  interface{}
	err error
}

// pumpXEvents blocks on WaitForEvent in its own goroutine and feeds
// everything onto a channel, mirroring the goroutine-feeds-channel shape
// internal/ipc and internal/crash already use for their own blocking
// reads.
func pumpXEvents(conn *xgb.Conn, out chan<- xevent) {
	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			close(out)
			return
		}
		out <- xevent{ev: ev, err: err}
	}
}

func newLoop(conn *x11.Conn, state *model.State, mgr *wm.Manager, trans *keys.Translator, ex *command.Executor, cfg *config.Config, srv *ipc.Server, h *crash.Handler) *loop {
	l := &loop{
		conn:    conn,
		state:   state,
		mgr:     mgr,
		trans:   trans,
		ex:      ex,
		cfg:     cfg,
		ipc:     srv,
		crash:   h,
		xevents: make(chan xevent, 16),
	}
	go pumpXEvents(conn.XU.Conn(), l.xevents)
	return l
}

func (l *loop) run() {
	sigs := make(chan os.Signal, 4)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case xe, ok := <-l.xevents:
			if !ok {
				return
			}
			if xe.err != nil {
				log.Printf("x11: %v", xe.err)
				continue
			}
			l.handleX(xe.ev)

		case req, ok := <-l.ipc.Incoming():
			if !ok {
				return
			}
			resp := l.ipc.Dispatch(req)
			req.Respond(resp)
			if err := l.mgr.RestackAll(); err != nil {
				log.Printf("restack after ipc command: %v", err)
			}

		case <-sigs:
			return

		case faultSig := <-l.crash.Chan():
			l.enterCrashUI(faultSig)
		}
	}
}

// enterCrashUI responds to a trapped SIGSEGV/SIGFPE by showing the
// override-redirect popup on every active output and grabbing the
// keyboard; subsequent KeyPress events resolve through crashUI instead of
// the normal binding table until the user picks e (re-raise, core dump)
// or r (re-exec).
func (l *loop) enterCrashUI(sig os.Signal) {
	l.crash.Trip(sig)
	ui := crash.NewUI(l.conn, l.trans, logDrawer{})
	if err := ui.Show(l.state, fmt.Sprintf("i3wm caught %v", sig)); err != nil {
		log.Printf("crash ui: %v", err)
		return
	}
	l.crashUI = ui
}

func (l *loop) handleX(ev interface{}) {
	if l.crashUI != nil {
		if kp, ok := ev.(xproto.KeyPressEvent); ok {
			l.handleCrashKeyPress(kp)
		}
		return
	}
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		l.handleMapRequest(e)
	case xproto.ConfigureRequestEvent:
		l.handleConfigureRequest(e)
	case xproto.UnmapNotifyEvent:
		l.handleUnmap(e.Window)
	case xproto.DestroyNotifyEvent:
		l.handleUnmap(e.Window)
	case xproto.PropertyNotifyEvent:
		l.handleProperty(e)
	case xproto.KeyPressEvent:
		l.handleKeyPress(e)
	case xproto.ButtonPressEvent:
		l.handleButtonPress(e)
	case randr.ScreenChangeNotifyEvent:
		l.rediscoverOutputs()
	case randr.NotifyEvent:
		l.rediscoverOutputs()
	}
}

func (l *loop) handleMapRequest(e xproto.MapRequestEvent) {
	cl, err := l.mgr.Manage(e.Window, false, false, false)
	if err != nil {
		log.Printf("manage %d: %v", e.Window, err)
		return
	}
	if cl == nil {
		return
	}
	cl.AwaitingUselessUnmap = true
	if ws := l.state.Workspace(cl.Workspace); ws != nil {
		if err := l.mgr.Render(ws); err != nil {
			log.Printf("render after manage: %v", err)
		}
	}
}

func (l *loop) handleConfigureRequest(e xproto.ConfigureRequestEvent) {
	cl := l.mgr.ClientByWindow(e.Window)
	if cl == nil {
		values := []uint32{}
		mask := uint16(0)
		if e.ValueMask&xproto.ConfigWindowX != 0 {
			mask |= xproto.ConfigWindowX
			values = append(values, uint32(e.X))
		}
		if e.ValueMask&xproto.ConfigWindowY != 0 {
			mask |= xproto.ConfigWindowY
			values = append(values, uint32(e.Y))
		}
		if e.ValueMask&xproto.ConfigWindowWidth != 0 {
			mask |= xproto.ConfigWindowWidth
			values = append(values, uint32(e.Width))
		}
		if e.ValueMask&xproto.ConfigWindowHeight != 0 {
			mask |= xproto.ConfigWindowHeight
			values = append(values, uint32(e.Height))
		}
		if err := xproto.ConfigureWindowChecked(l.conn.XU.Conn(), e.Window, mask, values).Check(); err != nil {
			log.Printf("configure unmanaged window: %v", err)
		}
		return
	}
	if err := l.mgr.ConfigureRequest(e, cl); err != nil {
		log.Printf("configure request: %v", err)
	}
}

func (l *loop) handleUnmap(win xproto.Window) {
	cl := l.mgr.ClientByWindow(win)
	if cl == nil {
		return
	}
	if cl.AwaitingUselessUnmap {
		cl.AwaitingUselessUnmap = false
		return
	}
	res := l.mgr.Unmanage(cl)
	if ws := l.state.Workspace(res.WorkspaceID); ws != nil {
		if err := l.mgr.Render(ws); err != nil {
			log.Printf("render after unmanage: %v", err)
		}
	}
}

func (l *loop) handleProperty(e xproto.PropertyNotifyEvent) {
	cl := l.mgr.ClientByWindow(e.Window)
	if cl == nil {
		return
	}
	wmHints, err := l.conn.Atom("WM_HINTS")
	if err == nil && e.Atom == wmHints {
		urgent := l.conn.Urgent(e.Window)
		l.mgr.ApplyUrgencyHint(cl, urgent)
	}
}

// handleCrashKeyPress resolves a keypress while the crash popup is up
// (§4.9): "e" re-raises the trapped signal for a core dump, "r" re-execs
// the binary in place, anything else is ignored.
func (l *loop) handleCrashKeyPress(e xproto.KeyPressEvent) {
	switch l.crashUI.HandleKeyPress(byte(e.Detail)) {
	case crash.ChoiceReRaise:
		l.crashUI.Dismiss()
		if err := l.crash.ReRaise(); err != nil {
			log.Printf("crash: re-raise: %v", err)
		}
	case crash.ChoiceReExec:
		l.crashUI.Dismiss()
		if err := crash.ReExec(); err != nil {
			log.Printf("crash: re-exec: %v", err)
		}
	}
}

func (l *loop) handleKeyPress(e xproto.KeyPressEvent) {
	b, ok := keys.Lookup(l.cfg.Bindings, uint8(e.Detail), e.State, false)
	if !ok {
		return
	}
	if err := l.ex.Execute(b.Command); err != nil {
		log.Printf("command %q: %v", b.Command, err)
	}
	if err := l.mgr.RestackAll(); err != nil {
		log.Printf("restack after command: %v", err)
	}
}

func (l *loop) handleButtonPress(e xproto.ButtonPressEvent) {
	if e.State&xproto.ModMask4 == 0 {
		return
	}
	cl := l.mgr.ClientByWindow(e.Child)
	if cl == nil || !cl.FloatingState.IsFloating() {
		return
	}
	ws := l.state.Workspace(cl.Workspace)
	if ws == nil {
		return
	}

	wm.RaiseFloating(l.state, cl)
	if err := l.mgr.Restack(ws); err != nil {
		log.Printf("restack on click: %v", err)
	}

	var cb wm.DragCallback
	if e.Detail == xproto.ButtonIndex3 {
		cb = wm.ResizeFloating(wm.CornerSE, int32(e.RootX), int32(e.RootY))
	} else {
		cb = wm.MoveFloating(ws, int32(e.RootX), int32(e.RootY))
	}

	if _, err := l.mgr.Drag(cl, cb, l.nextDragEvent); err != nil {
		log.Printf("drag: %v", err)
	}
	l.mgr.Render(ws)
}

// nextDragEvent feeds wm.Manager.Drag's pull loop from the same channel
// the main select reads, since a drag must keep consuming X events
// (motion/button-release) without missing IPC or signal wakeups forever.
func (l *loop) nextDragEvent() (interface{}, bool) {
	xe, ok := <-l.xevents
	if !ok || xe.err != nil {
		return nil, false
	}
	return xe.ev, true
}

func (l *loop) rediscoverOutputs() {
	ids := make(map[string]model.OutputID, len(l.state.Outputs))
	for id, o := range l.state.Outputs {
		ids[o.Name] = id
	}
	snaps, err := output.Discover(l.conn, ids)
	if err != nil {
		log.Printf("randr rediscover: %v", err)
		return
	}
	classes := output.Classify(l.state, snaps)
	const barHeight = 0
	output.Reconcile(l.state, classes, barHeight)
	for _, ws := range l.state.Workspaces {
		if l.state.WorkspaceIsVisible(ws) {
			l.mgr.Render(ws)
		}
	}
	l.ipc.BroadcastOutput()
}
