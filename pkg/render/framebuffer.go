package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/ansipixels/meshview/pkg/math3d"
)

// Surface receives draw primitives in compositing order.
type Surface interface {
	Draw(p DrawPrimitive)
}

// Framebuffer is an RGBA pixel grid with a background color.
type Framebuffer struct {
	Width      int
	Height     int
	Pixels     []Color
	Background Color
}

// NewFramebuffer creates a framebuffer cleared to BackgroundColor.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:      width,
		Height:     height,
		Pixels:     make([]Color, width*height),
		Background: BackgroundColor,
	}
	fb.Clear()
	return fb
}

// Clear fills the framebuffer with its background color.
func (fb *Framebuffer) Clear() {
	for i := range fb.Pixels {
		fb.Pixels[i] = fb.Background
	}
}

// Resize reallocates the pixel grid when the size changes and clears it.
func (fb *Framebuffer) Resize(width, height int) {
	if width != fb.Width || height != fb.Height {
		fb.Width, fb.Height = width, height
		fb.Pixels = make([]Color, width*height)
	}
	fb.Clear()
}

// SetPixel overwrites a pixel; out of range writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns a pixel, or transparent black out of range.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// BlendPixel composites c over the existing pixel.
func (fb *Framebuffer) BlendPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	idx := y*fb.Width + x
	fb.Pixels[idx] = c.Over(fb.Pixels[idx])
}

// DrawLine draws a line using Bresenham's algorithm, clipped to the
// framebuffer.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	fb.drawSegment(math3d.V2(float64(x0), float64(y0)), math3d.V2(float64(x1), float64(y1)), c)
}

// drawSegment clips a to b against the pixel grid and rasterizes what is
// left. Endpoints far off screen cost nothing beyond the clip.
func (fb *Framebuffer) drawSegment(a, b math3d.Vec2, c Color) {
	if fb.Width <= 0 || fb.Height <= 0 {
		return
	}
	a, b, ok := clipSegment(a, b, float64(fb.Width-1), float64(fb.Height-1))
	if !ok {
		return
	}
	fb.bresenham(round(a.X), round(a.Y), round(b.X), round(b.Y), c)
}

// clipSegment is Liang-Barsky against [0,maxX]x[0,maxY].
func clipSegment(a, b math3d.Vec2, maxX, maxY float64) (math3d.Vec2, math3d.Vec2, bool) {
	if !a.IsFinite() || !b.IsFinite() {
		return a, b, false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X},
		{dx, maxX - a.X},
		{-dy, a.Y},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = min(t1, r)
		}
	}
	return math3d.V2(a.X+t0*dx, a.Y+t0*dy), math3d.V2(a.X+t1*dx, a.Y+t1*dy), true
}

func (fb *Framebuffer) bresenham(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.BlendPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C of the
// directed edge (x0,y0) -> (x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	return y0 - y1, x1 - x0, x0*y1 - x1*y0
}

// FillTriangle rasterizes a triangle of either winding. Pixels whose centers
// lie on an edge are filled. brush returns the color for a pixel.
func (fb *Framebuffer) FillTriangle(p0, p1, p2 math3d.Vec2, brush func(x, y int) Color) {
	area2 := p1.Sub(p0).Cross(p2.Sub(p0))
	if area2 == 0 || math.IsNaN(area2) || math.IsInf(area2, 0) {
		return
	}
	if area2 < 0 {
		p1, p2 = p2, p1
	}

	minX := int(math.Max(0, math.Floor(min(p0.X, p1.X, p2.X))))
	maxX := int(math.Min(float64(fb.Width-1), math.Ceil(max(p0.X, p1.X, p2.X))))
	minY := int(math.Max(0, math.Floor(min(p0.Y, p1.Y, p2.Y))))
	maxY := int(math.Min(float64(fb.Height-1), math.Ceil(max(p0.Y, p1.Y, p2.Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: p1 -> p2, Edge 1: p2 -> p0, Edge 2: p0 -> p1
	a0, b0, c0 := edgeCoeffs(p1.X, p1.Y, p2.X, p2.Y)
	a1, b1, c1 := edgeCoeffs(p2.X, p2.Y, p0.X, p0.Y)
	a2, b2, c2 := edgeCoeffs(p0.X, p0.Y, p1.X, p1.Y)

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := a0*px + b0*py + c0
	w1Row := a1*px + b1*py + c1
	w2Row := a2*px + b2*py + c2

	// After the swap the area is positive and inside means all three edge
	// functions are non-negative.
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				fb.BlendPixel(x, y, brush(x, y))
			}
			w0 += a0
			w1 += a1
			w2 += a2
		}
		w0Row += b0
		w1Row += b1
		w2Row += b2
	}
}

// StrokeRect outlines a rectangle.
func (fb *Framebuffer) StrokeRect(r Rect, c Color) {
	corners := r.Corners()
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		fb.drawSegment(a, b, c)
	}
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Draw rasterizes one primitive.
func (fb *Framebuffer) Draw(p DrawPrimitive) {
	switch p.Kind {
	case FilledTriangle:
		if len(p.Points) != 3 {
			return
		}
		brush := func(int, int) Color { return p.Color }
		if p.Texture != nil {
			brush = p.Texture.Tile
		}
		fb.FillTriangle(p.Points[0], p.Points[1], p.Points[2], brush)
	case Polyline:
		n := len(p.Points)
		if n == 0 {
			return
		}
		for i := 0; i+1 < n; i++ {
			fb.drawSegment(p.Points[i], p.Points[i+1], p.Color)
		}
		if p.Closed && n > 2 {
			fb.drawSegment(p.Points[n-1], p.Points[0], p.Color)
		}
	case Rectangle:
		if p.Bounds.Min.IsFinite() && p.Bounds.Max.IsFinite() {
			fb.StrokeRect(p.Bounds, p.Color)
		}
	}
}

// DrawFrame clears the framebuffer and composites a frame in order.
func (fb *Framebuffer) DrawFrame(f *Frame) {
	fb.Clear()
	for _, obj := range f.Objects {
		for _, p := range obj.Primitives {
			fb.Draw(p)
		}
	}
}

// ToImage converts the framebuffer to an RGBA image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Pixels {
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}

// SavePNG writes the framebuffer to a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// Recorder is a Surface that keeps the primitives it receives.
type Recorder struct {
	Primitives []DrawPrimitive
}

// Draw appends p.
func (r *Recorder) Draw(p DrawPrimitive) {
	r.Primitives = append(r.Primitives, p)
}
