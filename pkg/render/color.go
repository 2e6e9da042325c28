// Package render turns scene snapshots into draw primitives and rasterizes
// them onto an in-memory framebuffer.
//
// A frame is produced in two stages. The pipeline walks objects and faces in
// declaration order, projecting, culling and shading each face, and emits
// DrawPrimitives. A Surface (usually a Framebuffer) then composites those
// primitives in the same order. There is no depth buffer: later primitives
// always cover earlier ones.
package render

// Color is an 8-bit RGBA color with straight (non-premultiplied) alpha.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// RGBA returns a color with the given alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

// Gray returns an opaque gray.
func Gray(v uint8) Color {
	return Color{v, v, v, 255}
}

// GrayOverlay returns the translucent gray used to shade a fill: the same
// value on every channel including alpha.
func GrayOverlay(v uint8) Color {
	return Color{v, v, v, v}
}

// Common colors
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// Overlay and background colors used by the pipeline.
var (
	BackgroundColor  = RGB(30, 30, 30)
	SolidBaseColor   = ColorWhite
	WireframeColor   = RGB(0, 255, 255)
	SelectionColor   = RGB(255, 165, 0)
	BoundingBoxColor = ColorGreen
	LightVectorColor = RGB(255, 255, 0)
)

// Over composites c on top of dst (source-over). The result is opaque when
// dst is.
func (c Color) Over(dst Color) Color {
	switch c.A {
	case 255:
		return c
	case 0:
		return dst
	}
	sa := uint32(c.A)
	da := uint32(dst.A) * (255 - sa) / 255
	outA := sa + da
	if outA == 0 {
		return Color{}
	}
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*sa + uint32(d)*da + outA/2) / outA)
	}
	return Color{mix(c.R, dst.R), mix(c.G, dst.G), mix(c.B, dst.B), uint8(outA)}
}

// ClampByte saturates v into [0, 255].
func ClampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
