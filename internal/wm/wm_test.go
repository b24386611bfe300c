package wm

import (
	"testing"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
)

func TestStackingOrderLocalFullscreenAboveTiledBelowFloating(t *testing.T) {
	s := model.NewState()
	ws := model.NewWorkspace(1, 1, 1)
	s.Workspaces[1] = ws
	cont := s.NewContainerAt(1, 0, 0)
	ws.Table[0][0] = cont.ID

	tiled := s.NewClient()
	cont.Clients.PushBack(tiled.ID)

	fsClient := s.NewClient()
	ws.FullscreenClient = fsClient.ID
	ws.FocusStack.PushBack(fsClient.ID)

	floating := s.NewClient()
	ws.Floating.PushBack(floating.ID)

	order := StackingOrder(s, ws, false)

	idx := func(id model.ClientID) int {
		for i, v := range order {
			if v == id {
				return i
			}
		}
		return -1
	}
	if idx(tiled.ID) > idx(fsClient.ID) {
		t.Fatalf("tiled client must be below local fullscreen: order=%v", order)
	}
	if idx(fsClient.ID) > idx(floating.ID) {
		t.Fatalf("local fullscreen must be below the floating layer: order=%v", order)
	}
}

func TestStackingOrderGlobalFullscreenIsTopmost(t *testing.T) {
	s := model.NewState()
	ws := model.NewWorkspace(1, 1, 1)
	s.Workspaces[1] = ws
	cont := s.NewContainerAt(1, 0, 0)
	ws.Table[0][0] = cont.ID

	floating := s.NewClient()
	ws.Floating.PushBack(floating.ID)
	fsClient := s.NewClient()
	ws.FullscreenClient = fsClient.ID

	order := StackingOrder(s, ws, true)
	if order[len(order)-1] != fsClient.ID {
		t.Fatalf("global fullscreen must be the topmost entry, got order=%v", order)
	}
}

func TestMoveFloatingDropsWhenBelowSanityMargin(t *testing.T) {
	ws := &model.Workspace{Rect: geom.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}}
	cb := MoveFloating(ws, 0, 0)
	old := geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	// move almost entirely off-screen to the left: only 2px of overlap remains
	got := cb(old, -98, 0)
	if got != old {
		t.Fatalf("move leaving < sanity margin visible should be dropped, got %+v", got)
	}
}

func TestMoveFloatingAppliesWithinBounds(t *testing.T) {
	ws := &model.Workspace{Rect: geom.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}}
	cb := MoveFloating(ws, 0, 0)
	old := geom.Rect{X: 100, Y: 100, Width: 100, Height: 100}
	got := cb(old, 10, 20)
	if got.X != 110 || got.Y != 120 {
		t.Fatalf("move = %+v, want translated by (10,20)", got)
	}
}

func TestResizeFloatingClampsToMinimum(t *testing.T) {
	cb := ResizeFloating(CornerSE, 0, 0)
	old := geom.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	got := cb(old, -500, -500)
	if got.Width != model.MinClientWidth || got.Height != model.MinClientHeight {
		t.Fatalf("resize below minimum should clamp, got %+v", got)
	}
}

func TestRecomputeWorkspaceUrgencyOrsMembers(t *testing.T) {
	s := model.NewState()
	ws := model.NewWorkspace(1, 1, 1)
	s.Workspaces[1] = ws
	a := s.NewClient()
	b := s.NewClient()
	ws.FocusStack.PushBack(a.ID)
	ws.FocusStack.PushBack(b.ID)
	RecomputeWorkspaceUrgency(s, ws)
	if ws.Urgent {
		t.Fatalf("no member urgent: workspace should not be urgent")
	}
	b.Urgent = true
	RecomputeWorkspaceUrgency(s, ws)
	if !ws.Urgent {
		t.Fatalf("one urgent member should mark the workspace urgent")
	}
}
