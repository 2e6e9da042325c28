package render

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/models"
	"github.com/ansipixels/meshview/pkg/scene"
)

// countingSurface records primitives and the highest number of goroutines
// seen inside Draw at once.
type countingSurface struct {
	mu      sync.Mutex
	prims   []DrawPrimitive
	inside  atomic.Int32
	maxSeen atomic.Int32
}

func (s *countingSurface) Draw(p DrawPrimitive) {
	n := s.inside.Add(1)
	for {
		m := s.maxSeen.Load()
		if n <= m || s.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(50 * time.Microsecond)
	s.mu.Lock()
	s.prims = append(s.prims, p)
	s.mu.Unlock()
	s.inside.Add(-1)
}

func concurrentSnapshot() scene.Snapshot {
	mesh := cubeMesh(1)
	mesh.Faces = append(mesh.Faces, models.Face{V: [3]int{0, 1, 42}})
	a := scene.NewObject("a", mesh)
	a.Selected = true
	b := scene.NewObject("b", cubeMesh(0.5))
	b.Position = math3d.V3(40, -10, 0)
	snap := snapshotOf(a, b)
	snap.Toggles = scene.Toggles{Solid: true, Wireframe: true, BoundingBox: true}
	return snap
}

func TestOrderedMatchesSequential(t *testing.T) {
	snap := concurrentSnapshot()
	want := NewPipeline().Render(snap, nil)

	var rec Recorder
	got := NewConcurrentRenderer(WithWorkers(8)).Render(&rec, snap, nil)

	if !reflect.DeepEqual(got.Primitives(), want.Primitives()) {
		t.Error("ordered concurrent frame differs from sequential frame")
	}
	if !reflect.DeepEqual(rec.Primitives, want.Primitives()) {
		t.Error("surface received primitives out of order")
	}
	if len(got.Issues) != 1 || got.Issues[0].Face != 12 {
		t.Errorf("Issues = %v, want face 12 only", got.Err())
	}
}

func TestLockedSerializesDraws(t *testing.T) {
	snap := concurrentSnapshot()
	want := NewPipeline().Render(snap, nil).Primitives()

	surface := &countingSurface{}
	r := NewConcurrentRenderer(WithWorkers(8), WithCompose(ComposeLocked))
	frame := r.Render(surface, snap, nil)

	// Render has returned, so every face must already be on the surface.
	if len(surface.prims) != len(want) {
		t.Fatalf("surface has %d primitives after Render, want %d", len(surface.prims), len(want))
	}
	if m := surface.maxSeen.Load(); m != 1 {
		t.Errorf("max concurrent draws = %d, want 1", m)
	}
	if got := len(frame.Primitives()); got != len(want) {
		t.Errorf("frame has %d primitives, want %d", got, len(want))
	}
	for _, k := range []PrimitiveKind{FilledTriangle, Polyline, Rectangle} {
		if g, w := countKind(surface.prims, k), countKind(want, k); g != w {
			t.Errorf("%v count = %d, want %d", k, g, w)
		}
	}
	if len(frame.Issues) != 1 {
		t.Errorf("Issues = %d, want 1", len(frame.Issues))
	}
}

func TestLockedKeepsFacePrimitivesTogether(t *testing.T) {
	// Each face's fill, overlay and outline are drawn under one lock hold,
	// so they stay adjacent whatever order faces finish in.
	obj := scene.NewObject("cube", cubeMesh(1))
	snap := snapshotOf(obj)
	snap.Toggles = scene.Toggles{Solid: true, Wireframe: true}

	var rec Recorder
	NewConcurrentRenderer(WithWorkers(6), WithCompose(ComposeLocked)).Render(&rec, snap, nil)
	if len(rec.Primitives) != 36 {
		t.Fatalf("got %d primitives, want 36", len(rec.Primitives))
	}
	for i := 0; i < len(rec.Primitives); i += 3 {
		group := rec.Primitives[i : i+3]
		if group[0].Color != SolidBaseColor || group[1].Kind != FilledTriangle || group[2].Kind != Polyline {
			t.Fatalf("primitives %d..%d are not one face: %+v", i, i+2, group)
		}
		if !reflect.DeepEqual(group[0].Points, group[2].Points) {
			t.Errorf("primitives %d..%d mix faces", i, i+2)
		}
	}
}

func TestParseComposeMode(t *testing.T) {
	for in, want := range map[string]ComposeMode{"": ComposeOrdered, "ordered": ComposeOrdered, "locked": ComposeLocked} {
		got, err := ParseComposeMode(in)
		if err != nil || got != want {
			t.Errorf("ParseComposeMode(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseComposeMode("random"); err == nil {
		t.Error("ParseComposeMode(random) succeeded")
	}
}

func BenchmarkConcurrentRender(b *testing.B) {
	snap := snapshotOf(scene.NewObject("cube", cubeMesh(1)))
	fb := NewFramebuffer(snap.Width, snap.Height)
	r := NewConcurrentRenderer()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fb.Clear()
		r.Render(fb, snap, nil)
	}
}
