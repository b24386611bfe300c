package main

import (
	"os"
	"os/exec"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/i3/i3-sub000/internal/crash"
	"github.com/i3/i3-sub000/internal/model"
	"github.com/i3/i3-sub000/internal/wm"
	"github.com/i3/i3-sub000/internal/x11"
)

// runner is the concrete command.Runner the event loop hands to every
// Executor: shelling out for exec, re-executing the binary in place for
// restart, and delegating everything window-related to the live Manager.
// reload is wired up by main() once the translator/applier it closes over
// exist, since bootstrapConfig has no config file to re-read from disk.
type runner struct {
	conn   *x11.Conn
	mgr    *wm.Manager
	reload func() error
}

func (r *runner) Exec(shellCmd string) error {
	cmd := exec.Command("sh", "-c", shellCmd)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

func (r *runner) Reload() error {
	if r.reload == nil {
		return nil
	}
	return r.reload()
}

func (r *runner) Restart() error {
	return crash.ReExec()
}

func (r *runner) Exit() {
	os.Exit(0)
}

func (r *runner) Kill(c *model.Client) error {
	return r.mgr.Kill(c)
}

func (r *runner) SetFullscreen(c *model.Client, global bool) error {
	return r.mgr.SetFullscreen(c, global)
}

func (r *runner) SetActiveWindow(c *model.Client) error {
	return r.conn.SetActiveWindow(xproto.Window(c.Child))
}
