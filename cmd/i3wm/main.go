package main

import (
	"log"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/command"
	"github.com/i3/i3-sub000/internal/config"
	"github.com/i3/i3-sub000/internal/crash"
	"github.com/i3/i3-sub000/internal/ipc"
	"github.com/i3/i3-sub000/internal/keys"
	"github.com/i3/i3-sub000/internal/layout"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/output"
	"github.com/i3/i3-sub000/internal/wm"
	"github.com/i3/i3-sub000/internal/x11"
)

// barHeight is the screen-edge strip Reconcile reserves for a status bar
// on every output; the bar process itself is an external component this
// binary doesn't launch.
const barHeight = 0

// supportedAtoms is the _NET_SUPPORTED list this window manager announces
// (§12 supplement): the subset of EWMH this implementation actually acts
// on, not a maximal claim.
var supportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_CLIENT_LIST",
	"_NET_CLIENT_LIST_STACKING",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DOCK",
}

func main() {
	opt := parseCLIOpts()
	configureLogging(opt)

	conn, err := x11.Connect(opt.display)
	if err != nil {
		log.Fatalf("connect to X: %v", err)
	}
	defer conn.Close()
	root := conn.Root()

	state := model.NewState()

	if err := output.SelectScreenChangeInput(conn); err != nil {
		log.Fatalf("subscribe to randr: %v", err)
	}
	snaps, err := output.Discover(conn, map[string]model.OutputID{})
	if err != nil {
		log.Fatalf("discover outputs: %v", err)
	}
	classes := output.Classify(state, snaps)
	output.Reconcile(state, classes, barHeight)

	trans, err := keys.NewTranslator(conn)
	if err != nil {
		log.Fatalf("build keyboard translator: %v", err)
	}

	mgr := &wm.Manager{
		State:   state,
		Conn:    conn,
		Metrics: layout.Metrics{TitleLineHeight: 18},
	}

	run := &runner{conn: conn, mgr: mgr}
	ex := &command.Executor{State: state, Run: run}

	srv, err := ipc.Listen(opt.socket, state, ex)
	if err != nil {
		log.Fatalf("listen on %s: %v", opt.socket, err)
	}

	applier := &config.Applier{Trans: trans, Mgr: mgr, Root: root}
	cfg := bootstrapConfig()
	cfg.Bindings = trans.Resolve(cfg.Bindings, resolveKeysym)
	if err := applier.Apply(cfg); err != nil {
		log.Fatalf("apply bootstrap config: %v", err)
	}
	run.reload = func() error {
		fresh := bootstrapConfig()
		fresh.Bindings = trans.Resolve(fresh.Bindings, resolveKeysym)
		*cfg = *fresh
		return applier.Apply(cfg)
	}

	h := crash.Install()
	if err := crash.EnsureCoreDumpsEnabled(); err != nil {
		log.Printf("core dumps: %v", err)
	}

	manageExistingWindows(mgr, conn, root)

	checkWin, err := createCheckWindow(conn, root)
	if err != nil {
		log.Printf("create supporting-wm-check window: %v", err)
	} else if err := conn.AnnounceSupported(checkWin, supportedAtoms); err != nil {
		log.Printf("announce EWMH support: %v", err)
	}

	go srv.Serve()
	defer srv.Close()

	l := newLoop(conn, state, mgr, trans, ex, cfg, srv, h)
	l.run()
}

// createCheckWindow makes the small unmapped window EWMH's
// _NET_SUPPORTING_WM_CHECK property is expected to point at.
func createCheckWindow(conn *x11.Conn, root xproto.Window) (xproto.Window, error) {
	win, err := xproto.NewWindowId(conn.XU.Conn())
	if err != nil {
		return 0, err
	}
	screen := conn.XU.Screen()
	err = xproto.CreateWindowChecked(conn.XU.Conn(), screen.RootDepth, win, root,
		-1, -1, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual, 0, nil).Check()
	return win, err
}

// manageExistingWindows sweeps the already-mapped top-level windows found
// at startup (§12 supplement), the same scenario Manage's startup/
// alreadyUnmapped parameters exist for.
func manageExistingWindows(mgr *wm.Manager, conn *x11.Conn, root xproto.Window) {
	tree, err := xproto.QueryTree(conn.XU.Conn(), root).Reply()
	if err != nil {
		log.Printf("query tree: %v", err)
		return
	}
	for _, win := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(conn.XU.Conn(), win).Reply()
		if err != nil {
			continue
		}
		alreadyUnmapped := attrs.MapState != xproto.MapStateViewable
		if _, err := mgr.Manage(win, attrs.OverrideRedirect, alreadyUnmapped, true); err != nil {
			log.Printf("manage existing window %d: %v", win, err)
		}
	}
}
