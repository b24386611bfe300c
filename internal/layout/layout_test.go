package layout

import (
	"testing"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
)

func newClient(s *model.State) *model.Client {
	c := s.NewClient()
	return c
}

func TestRenderContainerDefaultSplitsEvenly(t *testing.T) {
	s := model.NewState()
	cont := s.NewContainerAt(1, 0, 0)
	a, b := newClient(s), newClient(s)
	cont.Clients.PushBack(a.ID)
	cont.Clients.PushBack(b.ID)
	a.Container, b.Container = cont.ID, cont.ID

	rect := geom.Rect{X: 0, Y: 0, Width: 200, Height: 300}
	res := RenderContainer(s, cont, rect, Metrics{TitleLineHeight: 20})

	if len(res.Clients) != 2 {
		t.Fatalf("got %d client geometries, want 2", len(res.Clients))
	}
	ga, gb := res.Clients[a.ID], res.Clients[b.ID]
	if ga.Frame.Height+gb.Frame.Height != rect.Height {
		t.Fatalf("frame heights %d+%d != total %d", ga.Frame.Height, gb.Frame.Height, rect.Height)
	}
	if ga.Frame.Y != 0 || gb.Frame.Y != int32(ga.Frame.Height) {
		t.Fatalf("frames are not stacked vertically: %+v %+v", ga, gb)
	}
}

func TestRenderContainerDefaultExcludesFullscreen(t *testing.T) {
	s := model.NewState()
	ws := model.NewWorkspace(1, 1, 1)
	s.Workspaces[1] = ws
	cont := s.NewContainerAt(1, 0, 0)
	a, b := newClient(s), newClient(s)
	cont.Clients.PushBack(a.ID)
	cont.Clients.PushBack(b.ID)
	a.Container, b.Container = cont.ID, cont.ID
	a.Workspace, b.Workspace = 1, 1
	ws.FullscreenClient = a.ID

	res := RenderContainer(s, cont, geom.Rect{Width: 100, Height: 100}, Metrics{TitleLineHeight: 20})
	if _, ok := res.Clients[a.ID]; ok {
		t.Fatalf("fullscreen client should be excluded from the default split")
	}
	if g, ok := res.Clients[b.ID]; !ok || g.Frame.Height != 100 {
		t.Fatalf("remaining client should take the full rect, got %+v", g)
	}
}

func TestStackStripLineCountDefaultsToMemberCount(t *testing.T) {
	s := model.NewState()
	cont := s.NewContainerAt(1, 0, 0)
	cont.Mode = model.ModeStack
	for i := 0; i < 3; i++ {
		cl := newClient(s)
		cont.Clients.PushBack(cl.ID)
		cl.Container = cont.ID
	}
	res := RenderContainer(s, cont, geom.Rect{Width: 300, Height: 300}, Metrics{TitleLineHeight: 20})
	if res.StripAt.Height != 60 {
		t.Fatalf("strip height = %d, want 3*20=60", res.StripAt.Height)
	}
	if len(res.Strip) != 3 {
		t.Fatalf("got %d strip cells, want 3", len(res.Strip))
	}
}

func TestStackStripColsLimitMakesGrid(t *testing.T) {
	s := model.NewState()
	cont := s.NewContainerAt(1, 0, 0)
	cont.Mode = model.ModeStack
	cont.StackLimit = model.StackLimitCols
	cont.StackLimitValue = 2
	for i := 0; i < 5; i++ {
		cl := newClient(s)
		cont.Clients.PushBack(cl.ID)
		cl.Container = cont.ID
	}
	res := RenderContainer(s, cont, geom.Rect{Width: 300, Height: 300}, Metrics{TitleLineHeight: 20})
	// ceil(5/2) = 3 rows
	if res.StripAt.Height != 60 {
		t.Fatalf("strip height = %d, want 3*20=60", res.StripAt.Height)
	}
}

func TestChildRectDefaultNormalReservesTitlebar(t *testing.T) {
	cl := &model.Client{Border: model.BorderNormal, TitlebarPosition: model.TitlebarTop}
	frame := geom.Rect{X: 10, Y: 10, Width: 100, Height: 100}
	child := childRect(cl, frame, model.ModeDefault, Metrics{TitleLineHeight: 20})
	if child.X != 12 || child.Y != 34 {
		t.Fatalf("child origin = (%d,%d), want (12,34)", child.X, child.Y)
	}
	if child.Width != 96 {
		t.Fatalf("child width = %d, want 96", child.Width)
	}
}

func TestChildRectBorderlessNoTitlebarFillsFrame(t *testing.T) {
	cl := &model.Client{Borderless: true, TitlebarPosition: model.TitlebarOff}
	frame := geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	child := childRect(cl, frame, model.ModeDefault, Metrics{TitleLineHeight: 20})
	if child != frame {
		t.Fatalf("child = %+v, want equal to frame %+v", child, frame)
	}
}

func TestAdjustAspectAndIncrementHonorsIncrement(t *testing.T) {
	cl := &model.Client{WidthIncrement: 10, BaseWidth: 0}
	child := geom.Rect{X: 0, Y: 0, Width: 105, Height: 50}
	got := adjustAspectAndIncrement(cl, child)
	if got.Width != 100 {
		t.Fatalf("width = %d, want 100 (105 rounded down to a multiple of 10)", got.Width)
	}
}

func TestFixAspectRatioHintsIgnoresNonPositive(t *testing.T) {
	cl := &model.Client{ProportionalWidth: 16, ProportionalHeight: 9}
	FixAspectRatioHints(cl, 0, 3, 16, 9)
	if cl.ProportionalWidth != 16 || cl.ProportionalHeight != 9 {
		t.Fatalf("hint with non-positive numerator must be ignored, got %d/%d", cl.ProportionalWidth, cl.ProportionalHeight)
	}
}

func TestFixAspectRatioHintsClampsOutOfRange(t *testing.T) {
	cl := &model.Client{ProportionalWidth: 21, ProportionalHeight: 9} // 2.33:1, too wide
	FixAspectRatioHints(cl, 1, 2, 16, 9)                              // allowed range [0.5, 1.77]
	if cl.ProportionalWidth != 16 || cl.ProportionalHeight != 9 {
		t.Fatalf("out-of-range ratio should clamp to max, got %d/%d", cl.ProportionalWidth, cl.ProportionalHeight)
	}
}

func TestDecorationColorUrgentWins(t *testing.T) {
	s := model.NewState()
	cl := newClient(s)
	cl.Urgent = true
	palette := geom.Palette{Urgent: geom.Triple{Border: geom.Color{R: 1}}}
	got := DecorationColor(s, cl, palette)
	if got != palette.Urgent {
		t.Fatalf("urgent client must always get the urgent triple")
	}
}

func TestFullscreenRectGlobalUnionsActiveOutputs(t *testing.T) {
	s := model.NewState()
	ws := model.NewWorkspace(1, 1, 1)
	o1 := s.NewOutput("LVDS-1")
	o1.Active = true
	o1.Rect = geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	o2 := s.NewOutput("HDMI-1")
	o2.Active = true
	o2.Rect = geom.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	got := FullscreenRect(s, ws, true)
	if got.Width != 3840 || got.Height != 1080 {
		t.Fatalf("global fullscreen rect = %+v, want 3840x1080", got)
	}
}
