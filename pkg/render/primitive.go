package render

import (
	"fmt"
	"math"

	"github.com/ansipixels/meshview/pkg/math3d"
)

// PrimitiveKind identifies the shape of a DrawPrimitive.
type PrimitiveKind int

const (
	FilledTriangle PrimitiveKind = iota
	Polyline
	Rectangle
)

func (k PrimitiveKind) String() string {
	switch k {
	case FilledTriangle:
		return "FilledTriangle"
	case Polyline:
		return "Polyline"
	case Rectangle:
		return "Rectangle"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// Rect is an axis-aligned screen rectangle in pixels.
type Rect struct {
	Min, Max math3d.Vec2
}

// BoundsOf returns the smallest Rect containing all points.
func BoundsOf(points ...math3d.Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min = r.Min.Min(p)
		r.Max = r.Max.Max(p)
	}
	return r
}

// Corners returns the four corners clockwise from Min in screen space.
func (r Rect) Corners() [4]math3d.Vec2 {
	return [4]math3d.Vec2{
		r.Min,
		math3d.V2(r.Max.X, r.Min.Y),
		r.Max,
		math3d.V2(r.Min.X, r.Max.Y),
	}
}

// Overlaps reports whether r and o share any point, edges included.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// DrawPrimitive is a surface-independent drawing instruction.
type DrawPrimitive struct {
	Kind PrimitiveKind
	// Points holds the 3 triangle vertices or the polyline vertices.
	Points []math3d.Vec2
	// Closed joins the last polyline point back to the first.
	Closed bool
	// Bounds is used by Rectangle.
	Bounds Rect
	Color  Color
	// Texture, when set on a FilledTriangle, replaces Color with the texture
	// tiled in screen space.
	Texture *Texture
}

// Fill returns a filled triangle primitive.
func Fill(pts [3]math3d.Vec2, c Color) DrawPrimitive {
	return DrawPrimitive{Kind: FilledTriangle, Points: pts[:], Color: c}
}

// TexturedFill returns a filled triangle brushed with tex.
func TexturedFill(pts [3]math3d.Vec2, tex *Texture) DrawPrimitive {
	return DrawPrimitive{Kind: FilledTriangle, Points: pts[:], Color: ColorWhite, Texture: tex}
}

// Outline returns the closed outline of a triangle.
func Outline(pts [3]math3d.Vec2, c Color) DrawPrimitive {
	return DrawPrimitive{Kind: Polyline, Points: pts[:], Closed: true, Color: c}
}

// Line returns a two-point polyline.
func Line(a, b math3d.Vec2, c Color) DrawPrimitive {
	return DrawPrimitive{Kind: Polyline, Points: []math3d.Vec2{a, b}, Color: c}
}

// RectOutline returns a stroked rectangle.
func RectOutline(r Rect, c Color) DrawPrimitive {
	return DrawPrimitive{Kind: Rectangle, Bounds: r, Color: c}
}

// Degenerate reports whether a triangle primitive has (near) zero area or
// non-finite coordinates.
func (p DrawPrimitive) Degenerate() bool {
	if p.Kind != FilledTriangle || len(p.Points) != 3 {
		return false
	}
	for _, pt := range p.Points {
		if !pt.IsFinite() {
			return true
		}
	}
	a, b, c := p.Points[0], p.Points[1], p.Points[2]
	return math.Abs(b.Sub(a).Cross(c.Sub(a))) < 1e-12
}
