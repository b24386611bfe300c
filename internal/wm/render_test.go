package wm

import (
	"testing"

	"github.com/i3/i3-sub000/internal/geom"
	"github.com/i3/i3-sub000/internal/model"
)

func TestOffsetsAccumulatesTrackSizes(t *testing.T) {
	got := offsets([]uint32{10, 20, 30})
	want := []uint32{0, 10, 30, 60}
	if len(got) != len(want) {
		t.Fatalf("offsets length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("offsets[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCellRectSingleCellCoversWholeBase(t *testing.T) {
	base := geom.Rect{X: 100, Y: 50, Width: 800, Height: 600}
	cont := &model.Container{Col: 0, Row: 0, Colspan: 1, Rowspan: 1}
	rect := cellRect(base, offsets([]uint32{800}), offsets([]uint32{600}), cont)
	if rect != base {
		t.Fatalf("single-cell rect = %+v, want %+v", rect, base)
	}
}

func TestCellRectHonorsColspan(t *testing.T) {
	base := geom.Rect{X: 0, Y: 0, Width: 300, Height: 100}
	cont := &model.Container{Col: 0, Row: 0, Colspan: 2, Rowspan: 1}
	rect := cellRect(base, offsets([]uint32{100, 100, 100}), offsets([]uint32{100}), cont)
	if rect.Width != 200 {
		t.Fatalf("colspan-2 rect width = %d, want 200", rect.Width)
	}
	if rect.X != 0 {
		t.Fatalf("colspan-2 rect x = %d, want 0", rect.X)
	}
}

func TestCellRectOffsetByPosition(t *testing.T) {
	base := geom.Rect{X: 0, Y: 0, Width: 300, Height: 100}
	cont := &model.Container{Col: 2, Row: 0, Colspan: 1, Rowspan: 1}
	rect := cellRect(base, offsets([]uint32{100, 100, 100}), offsets([]uint32{100}), cont)
	if rect.X != 200 || rect.Width != 100 {
		t.Fatalf("third-column rect = %+v, want x=200 width=100", rect)
	}
}
