// Package output implements multi-output discovery and reconciliation
// (C7): turning a RandR snapshot into to-be-disabled/changed/unassigned
// classifications and folding those into the model (workspace/dock
// reassignment, bar rect updates, force-reconfigure marking).
package output

import (
	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
)

// Direction re-exports model.Direction so callers only need this package
// for get_output_most.
type Direction = model.Direction

const (
	Left  = model.DirLeft
	Down  = model.DirDown
	Up    = model.DirUp
	Right = model.DirRight
)

// Snapshot is one output's freshly read RandR state, produced by the
// x11-facing discovery step and fed into Reconcile.
type Snapshot struct {
	ID       model.OutputID // 0 if this is a newly seen output
	Name     string
	HasCRTC  bool
	Rect     geom.Rect
}

// Classification is the per-output verdict from the discovery pass
// (§4.8 steps 1-3).
type Classification struct {
	Snapshot
	ToBeDisabled bool
	Changed      bool
}

// Classify applies steps 1-3 of §4.8 to a set of freshly read snapshots
// against the current model state, returning one Classification per
// snapshot plus the model.OutputID it corresponds to (allocating new
// Output records for snapshots never seen before).
func Classify(s *model.State, snaps []Snapshot) []Classification {
	out := make([]Classification, len(snaps))
	for i, snap := range snaps {
		c := Classification{Snapshot: snap}
		var existing *model.Output
		if snap.ID.Valid() {
			existing = s.Output(snap.ID)
		}
		if existing == nil {
			o := s.NewOutput(snap.Name)
			c.ID = o.ID
			existing = o
		}
		if !snap.HasCRTC {
			if existing.Active {
				c.ToBeDisabled = true
			}
			continue
		}
		if existing.Rect != snap.Rect {
			c.Changed = true
		}
		out[i] = c
	}

	// Clone detection (step 3): active outputs whose top-left corner
	// matches are reduced to the minimum common size and all but one
	// are marked to-be-disabled.
	for i := range out {
		if !out[i].HasCRTC || out[i].ToBeDisabled {
			continue
		}
		for j := i + 1; j < len(out); j++ {
			if !out[j].HasCRTC || out[j].ToBeDisabled {
				continue
			}
			if out[i].Rect.X != out[j].Rect.X || out[i].Rect.Y != out[j].Rect.Y {
				continue
			}
			w, h := out[i].Rect.Width, out[i].Rect.Height
			if out[j].Rect.Width < w {
				w = out[j].Rect.Width
			}
			if out[j].Rect.Height < h {
				h = out[j].Rect.Height
			}
			out[i].Rect.Width, out[i].Rect.Height = w, h
			out[j].ToBeDisabled = true
			out[i].Changed = true
		}
	}
	return out
}

// ReconcileResult reports the IPC events a reconciliation sweep produced,
// so the caller (C9/C12) can broadcast them without the output package
// needing to know about the IPC wire format.
type ReconcileResult struct {
	EmptiedWorkspaces []model.WorkspaceID
	AttachedOutputs   []model.OutputID
}

// Reconcile applies the classifications from Classify to the model
// (§4.8's reconciliation sweep): disabled outputs hand off their
// workspaces and docks to the first active output, changed outputs get a
// force-reconfigure sweep over their hosted clients, and unassigned
// active outputs pick up the first eligible workspace.
func Reconcile(s *model.State, classifications []Classification, barHeight uint32) ReconcileResult {
	var res ReconcileResult

	var firstActive *model.Output
	for _, c := range classifications {
		o := s.Output(c.ID)
		if o == nil {
			continue
		}
		if !c.ToBeDisabled && c.HasCRTC {
			o.Active = true
			o.Rect = c.Rect
			if firstActive == nil {
				firstActive = o
			}
		}
	}

	for _, c := range classifications {
		if !c.ToBeDisabled {
			continue
		}
		o := s.Output(c.ID)
		if o == nil {
			continue
		}
		o.Active = false
		if firstActive == nil {
			continue
		}
		for _, ws := range s.Workspaces {
			if ws.Output == o.ID {
				ws.Output = firstActive.ID
				if firstActive.Current == 0 {
					firstActive.Current = ws.ID
				}
			}
		}
		for _, cid := range o.DockClients.Items() {
			firstActive.DockClients.PushBack(cid)
			if cl := s.Client(cid); cl != nil {
				cl.Output = firstActive.ID
			}
		}
		o.DockClients = o.DockClients.Clone()
	}

	for _, c := range classifications {
		if !c.Changed {
			continue
		}
		o := s.Output(c.ID)
		if o == nil {
			continue
		}
		o.BarRect = geom.Rect{X: o.Rect.X, Y: o.Rect.Y, Width: o.Rect.Width, Height: barHeight}
		for _, ws := range s.Workspaces {
			if ws.Output != o.ID {
				continue
			}
			for _, cid := range ws.FocusStack.Items() {
				if cl := s.Client(cid); cl != nil {
					cl.ForceReconfigure = true
				}
			}
			if ws.FullscreenClient.Valid() {
				// caller re-renders using layout.FullscreenRect; this package
				// only flags the need, since rendering needs the draw
				// connection C7 does not own.
				if cl := s.Client(ws.FullscreenClient); cl != nil {
					cl.ForceReconfigure = true
				}
			}
		}
	}

	for _, c := range classifications {
		o := s.Output(c.ID)
		if o == nil || !o.Active || o.Current.Valid() {
			continue
		}
		n := 1
		for {
			ws := s.WorkspaceGet(n)
			if !ws.Output.Valid() {
				ws.Output = o.ID
				o.Current = ws.ID
				res.AttachedOutputs = append(res.AttachedOutputs, o.ID)
				break
			}
			n++
		}
	}

	return res
}

// GetOutputMost returns the active output whose x (Left/Right) or y
// (Up/Down) coordinate is extreme in the requested direction, among those
// sharing current's perpendicular coordinate; ties keep the last
// encountered (§4.8).
func GetOutputMost(s *model.State, dir Direction, current *model.Output) *model.Output {
	best := current
	for _, o := range s.Outputs {
		if !o.Active || o.ID == current.ID {
			continue
		}
		switch dir {
		case Left, Right:
			if o.Rect.Y != current.Rect.Y {
				continue
			}
			if dir == Left && o.Rect.X <= best.Rect.X {
				best = o
			}
			if dir == Right && o.Rect.X >= best.Rect.X {
				best = o
			}
		case Up, Down:
			if o.Rect.X != current.Rect.X {
				continue
			}
			if dir == Up && o.Rect.Y <= best.Rect.Y {
				best = o
			}
			if dir == Down && o.Rect.Y >= best.Rect.Y {
				best = o
			}
		}
	}
	return best
}
