package viewer

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ansipixels/meshview/pkg/console"
	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/models"
	"github.com/ansipixels/meshview/pkg/render"
	"github.com/ansipixels/meshview/pkg/scene"
)

// triangleScene places one triangle whose screen image is roughly
// (400,300) (460,300) (400,240) in an 800x600 orthographic view.
func triangleScene() *scene.Scene {
	m := models.NewMesh("tri")
	m.Vertices = []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)}
	m.Faces = []models.Face{{V: [3]int{0, 1, 2}}}
	m.CalculateBounds()

	s := scene.New(800, 600)
	s.Add(scene.NewObject("tri", m))
	s.UpdateCamera(func(c *scene.Camera) { c.Position = math3d.V3(0, 0, -5) })
	return s
}

func TestRenderFillsTriangle(t *testing.T) {
	v := New(triangleScene())
	frame := v.Render()
	if err := frame.Err(); err != nil {
		t.Fatalf("frame issues: %v", err)
	}
	fb := v.Framebuffer()
	if got := fb.GetPixel(415, 285); got == render.BackgroundColor {
		t.Errorf("pixel inside triangle = %v, want non-background", got)
	}
	if got := fb.GetPixel(10, 10); got != render.BackgroundColor {
		t.Errorf("pixel outside triangle = %v, want background %v", got, render.BackgroundColor)
	}
	if v.LastFrame() != frame {
		t.Error("LastFrame does not return the rendered frame")
	}
}

func TestDirtyTracking(t *testing.T) {
	v := New(triangleScene())
	if !v.Dirty() {
		t.Fatal("new viewer should need a frame")
	}
	if _, rendered := v.RenderIfDirty(); !rendered {
		t.Error("RenderIfDirty skipped a dirty scene")
	}
	if v.Dirty() {
		t.Error("scene still dirty after render")
	}
	if _, rendered := v.RenderIfDirty(); rendered {
		t.Error("RenderIfDirty rendered a clean scene")
	}
	if _, err := v.Exec("camrot 0.25"); err != nil {
		t.Fatalf("Exec error = %v", err)
	}
	if !v.Dirty() {
		t.Error("command did not mark the scene dirty")
	}
}

func TestClickSelection(t *testing.T) {
	v := New(triangleScene())

	tests := []struct {
		name     string
		x, y     float64
		wantHit  int
		selected bool
	}{
		{"hit selects", 415, 285, 0, true},
		{"hit again deselects", 415, 285, 0, false},
		{"hit selects again", 415, 285, 0, true},
		{"miss keeps selection", 10, 10, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Click(tt.x, tt.y); got != tt.wantHit {
				t.Errorf("Click(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.wantHit)
			}
			_, ok := v.Scene().Selected()
			if ok != tt.selected {
				t.Errorf("selected = %v, want %v", ok, tt.selected)
			}
		})
	}
}

func TestRunScript(t *testing.T) {
	v := New(triangleScene())
	script := strings.Join([]string{
		"# setup",
		"light 1 2 3",
		"teleport 0 0 0",
		"",
		"echo lightpos",
	}, "\n")

	var out bytes.Buffer
	err := v.RunScript(strings.NewReader(script), &out)
	if !errors.Is(err, console.ErrUnknownCommand) {
		t.Errorf("RunScript error = %v, want ErrUnknownCommand", err)
	}
	if err != nil && !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q does not name line 3", err)
	}
	want := "Updated lightpos\n(1, 2, 3)\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestResizeReallocatesFramebuffer(t *testing.T) {
	v := New(triangleScene())
	v.Render()
	v.Resize(320, 200)
	if !v.Dirty() {
		t.Error("resize did not mark the scene dirty")
	}
	v.Render()
	fb := v.Framebuffer()
	if fb.Width != 320 || fb.Height != 200 {
		t.Errorf("framebuffer = %dx%d, want 320x200", fb.Width, fb.Height)
	}
	if img := v.Image(); img.Bounds().Dx() != 320 || img.Bounds().Dy() != 200 {
		t.Errorf("image bounds = %v, want 320x200", img.Bounds())
	}
}

func TestConcurrentMatchesSequential(t *testing.T) {
	toggles := func(s *scene.Scene) {
		_ = s.UpdateToggles(func(tg *scene.Toggles) error {
			tg.Wireframe = true
			tg.BoundingBox = true
			tg.LightVectors = true
			return nil
		})
	}
	seqScene, conScene := triangleScene(), triangleScene()
	toggles(seqScene)
	toggles(conScene)

	seq := New(seqScene, WithPipeline(render.NewPipeline()))
	con := New(conScene, WithConcurrent(render.NewConcurrentRenderer(render.WithWorkers(3))))
	seq.Render()
	con.Render()

	if !slices.Equal(seq.Framebuffer().Pixels, con.Framebuffer().Pixels) {
		t.Error("concurrent ordered frame differs from sequential frame")
	}
}
