package console

import (
	"errors"
	"testing"

	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/scene"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    string
		args    int
		wantErr error
	}{
		{"light", "light 1 2 3", "light", 3, nil},
		{"upper case name", "CAMPOS 0 0 -3", "campos", 3, nil},
		{"quoted arg", `toggle "bbox"`, "toggle", 1, nil},
		{"blank", "   ", "", 0, nil},
		{"comment", "# just a note", "", 0, nil},
		{"unknown", "teleport 1 2 3", "", 0, ErrUnknownCommand},
		{"too few", "light 1 2", "", 0, ErrBadArgs},
		{"too many", "camrot 1 2", "", 0, ErrBadArgs},
		{"not a number", "campos 1 two 3", "", 0, ErrBadArgs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.line, err)
			}
			if cmd.Name != tt.want {
				t.Errorf("Name = %q, want %q", cmd.Name, tt.want)
			}
			if len(cmd.Args) != tt.args {
				t.Errorf("len(Args) = %d, want %d", len(cmd.Args), tt.args)
			}
		})
	}
}

func TestExecUpdatesScene(t *testing.T) {
	s := scene.New(800, 600)

	tests := []struct {
		line string
		want string
	}{
		{"light 1 2 3", "Updated lightpos"},
		{"campos 0 0 -3", "Updated Cam Position"},
		{"camrot 0.5", "Updated Cam rotation"},
		{"move 0.1 0 0", "Moved camera"},
		{"zoom 2", "Updated zoom"},
		{"toggle wireframe", "wireframe on"},
		{"toggle wireframe", "wireframe off"},
		{"echo camrot", "0.5 | 0.5"},
		{"echo campos", "(0.1, 0, -3)"},
		{"echo lightpos", "(1, 2, 3)"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := Exec(s, tt.line)
		if err != nil {
			t.Fatalf("Exec(%q) error = %v", tt.line, err)
		}
		if got != tt.want {
			t.Errorf("Exec(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}

	cam := s.Camera()
	if cam.Yaw != 0.5 || cam.Pitch != 0.5 {
		t.Errorf("camera rotation = (%v, %v), want (0.5, 0.5)", cam.Yaw, cam.Pitch)
	}
	if cam.Zoom != 2 {
		t.Errorf("camera zoom = %v, want 2", cam.Zoom)
	}
	if got := s.Light(); got.Position != math3d.V3(1, 2, 3) || got.Intensity != scene.DefaultLight().Intensity {
		t.Errorf("light = %+v, want position (1,2,3) with default intensity", got)
	}
}

func TestExecErrors(t *testing.T) {
	tests := []struct {
		line    string
		wantErr error
	}{
		{"setobjpos 1 0 0", scene.ErrNoSelection},
		{"zoom 0", ErrBadArgs},
		{"zoom -1", ErrBadArgs},
		{"echo nothing", ErrBadArgs},
		{"toggle sparkles", scene.ErrUnknownToggle},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := scene.New(800, 600)
			s.MarkClean()
			if _, err := Exec(s, tt.line); !errors.Is(err, tt.wantErr) {
				t.Errorf("Exec(%q) error = %v, want %v", tt.line, err, tt.wantErr)
			}
			if s.Dirty() {
				t.Errorf("Exec(%q) marked the scene dirty after failing", tt.line)
			}
		})
	}
}

func TestSetObjPosMovesSelection(t *testing.T) {
	s := scene.New(800, 600)
	a := scene.NewObject("a", nil)
	b := scene.NewObject("b", nil)
	s.Add(a)
	s.Add(b)
	s.Click(1)

	if _, err := Exec(s, "setobjpos 4 5 6"); err != nil {
		t.Fatalf("setobjpos error = %v", err)
	}
	snap := s.Snapshot()
	if snap.Objects[1].Position != math3d.V3(4, 5, 6) {
		t.Errorf("selected position = %v, want (4,5,6)", snap.Objects[1].Position)
	}
	if snap.Objects[0].Position != math3d.Zero3() {
		t.Errorf("unselected position = %v, want origin", snap.Objects[0].Position)
	}
}

func TestFormatVec3(t *testing.T) {
	if got := FormatVec3(math3d.V3(1.5, -2, 0)); got != "(1.5, -2, 0)" {
		t.Errorf("FormatVec3 = %q, want %q", got, "(1.5, -2, 0)")
	}
}
