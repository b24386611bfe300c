// Package geom holds the small geometric and color primitives shared by the
// table engine, the layout engine and the window manager core. It has no
// dependency on X11 so it can be tested in isolation.
package geom

// Rect is a window or container's position and size in root coordinates.
type Rect struct {
	X, Y          int32
	Width, Height uint32
}

// Point is a single root-coordinate pixel position, used for pointer warps.
type Point struct {
	X, Y int32
}

// Center returns the midpoint of r, rounding down.
func (r Rect) Center() Point {
	return Point{
		X: r.X + int32(r.Width/2),
		Y: r.Y + int32(r.Height/2),
	}
}

// Contains reports whether p lies within r (inclusive of the top/left edge,
// exclusive of the bottom/right edge, matching X11's own convention).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+int32(r.Width) &&
		p.Y >= r.Y && p.Y < r.Y+int32(r.Height)
}

// Overlaps reports whether r and o share any pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.X+int32(r.Width) <= o.X || o.X+int32(o.Width) <= r.X {
		return false
	}
	if r.Y+int32(r.Height) <= o.Y || o.Y+int32(o.Height) <= r.Y {
		return false
	}
	return true
}

// Union returns the bounding rectangle of r and o.
func Union(rects ...Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].X+int32(rects[0].Width), rects[0].Y+int32(rects[0].Height)
	for _, r := range rects[1:] {
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if right := r.X + int32(r.Width); right > maxX {
			maxX = right
		}
		if bottom := r.Y + int32(r.Height); bottom > maxY {
			maxY = bottom
		}
	}
	return Rect{X: minX, Y: minY, Width: uint32(maxX - minX), Height: uint32(maxY - minY)}
}

// Shrink insets r by n pixels on every side. Negative results are clamped to
// zero width/height rather than wrapping, since callers feed user-controlled
// border widths.
func (r Rect) Shrink(n int32) Rect {
	w := int32(r.Width) - 2*n
	h := int32(r.Height) - 2*n
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X + n, Y: r.Y + n, Width: uint32(w), Height: uint32(h)}
}

// Color is an RGBA color plus the server-allocated pixel value for the
// connection's visual, as produced by the external draw service (C4,
// get_colorpixel).
type Color struct {
	R, G, B, A uint8
	Pixel      uint32
}

// Triple is the {border, background, text} color set used to decorate a
// client in a particular focus state (§4.3.6).
type Triple struct {
	Border     Color
	Background Color
	Text       Color
}

// Palette groups the decoration triples the layout engine selects between,
// keyed by the taxonomy in §4.3.6.
type Palette struct {
	Focused         Triple
	FocusedInactive Triple
	Unfocused       Triple
	Urgent          Triple
}
