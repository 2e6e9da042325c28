package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // brush images
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp" // BMP brushes
	xdraw "golang.org/x/image/draw"
)

// Texture is a small image used as a fill brush. It is tiled in screen
// space; meshes carry no texture coordinates.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
}

// NewTexture creates a new texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// SetPixel sets a texel; out of range writes are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns a texel, or transparent black out of range.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Tile returns the texel covering screen pixel (x, y) when the texture is
// repeated from the screen origin.
func (t *Texture) Tile(x, y int) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorWhite
	}
	tx := x % t.Width
	if tx < 0 {
		tx += t.Width
	}
	ty := y % t.Height
	if ty < 0 {
		ty += t.Height
	}
	return t.Pixels[ty*t.Width+tx]
}

// NewCheckerTexture creates a checkerboard pattern texture.
func NewCheckerTexture(width, height, cellSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	if cellSize <= 0 {
		cellSize = 1
	}
	for y := range height {
		for x := range width {
			if ((x/cellSize)+(y/cellSize))%2 == 0 {
				tex.Pixels[y*width+x] = c1
			} else {
				tex.Pixels[y*width+x] = c2
			}
		}
	}
	return tex
}

// DefaultBrush is the fallback texture when none is configured.
func DefaultBrush() *Texture {
	return NewCheckerTexture(16, 16, 4, RGB(180, 180, 180), RGB(90, 90, 90))
}

// TextureFromImage copies any image into a texture with straight alpha.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, _ := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			tex.Pixels[(y-b.Min.Y)*tex.Width+(x-b.Min.X)] = Color{R: c.R, G: c.G, B: c.B, A: c.A}
		}
	}
	return tex
}

// LoadTexture decodes a PNG, JPEG or BMP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// ToImage converts the texture to a non-premultiplied image.
func (t *Texture) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}

// Resized returns a copy scaled to width x height with nearest-neighbor sampling.
func (t *Texture) Resized(width, height int) *Texture {
	if width <= 0 || height <= 0 {
		return NewTexture(0, 0)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), t.ToImage(), image.Rect(0, 0, t.Width, t.Height), xdraw.Src, nil)
	return TextureFromImage(dst)
}

// FitWithin scales the texture down, keeping its aspect, so neither side
// exceeds size. Textures that already fit, or size <= 0, are returned as is.
func (t *Texture) FitWithin(size int) *Texture {
	if size <= 0 || (t.Width <= size && t.Height <= size) {
		return t
	}
	w, h := size, size
	if t.Width > t.Height {
		h = max(1, t.Height*size/t.Width)
	} else {
		w = max(1, t.Width*size/t.Height)
	}
	return t.Resized(w, h)
}
