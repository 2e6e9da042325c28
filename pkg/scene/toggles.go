package scene

import (
	"errors"
	"fmt"
	"strings"
)

// Toggles are the per-frame display switches.
type Toggles struct {
	Wireframe    bool
	BoundingBox  bool
	LightVectors bool
	Solid        bool
	ShadingOnly  bool
	Culling      bool
}

// ErrUnknownToggle is returned by Toggles.Flip for names it does not know.
var ErrUnknownToggle = errors.New("unknown toggle")

// ToggleNames lists the names Flip accepts, in key order C V B N M.
var ToggleNames = []string{"wireframe", "bbox", "lightvec", "solid", "shading", "cull"}

func (t *Toggles) field(name string) *bool {
	switch strings.ToLower(name) {
	case "wireframe", "wire":
		return &t.Wireframe
	case "bbox", "boundingbox":
		return &t.BoundingBox
	case "lightvec", "light", "lightvectors":
		return &t.LightVectors
	case "solid":
		return &t.Solid
	case "shading", "shadingonly":
		return &t.ShadingOnly
	case "cull", "culling":
		return &t.Culling
	}
	return nil
}

// Flip inverts the named toggle and returns its new value.
func (t *Toggles) Flip(name string) (bool, error) {
	f := t.field(name)
	if f == nil {
		return false, fmt.Errorf("%q: %w", name, ErrUnknownToggle)
	}
	*f = !*f
	return *f, nil
}

func (t Toggles) String() string {
	on := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("wireframe %s, bbox %s, lightvec %s, solid %s, shading %s, cull %s",
		on(t.Wireframe), on(t.BoundingBox), on(t.LightVectors), on(t.Solid), on(t.ShadingOnly), on(t.Culling))
}
