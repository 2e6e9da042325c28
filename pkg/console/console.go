// Package console parses and applies the viewer's line commands.
//
// A line is split shell-style, so quoting and # comments work the same way
// in the interactive prompt and in command scripts:
//
//	light 5 5 5
//	campos 0 0 -3
//	camrot 0.5
//	setobjpos 1 0 0
//	echo campos
//	toggle wireframe
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ansipixels/meshview/pkg/math3d"
	"github.com/ansipixels/meshview/pkg/scene"
	"github.com/google/shlex"
)

var (
	// ErrUnknownCommand is returned for a command name Parse does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadArgs is returned for a wrong argument count or a malformed value.
	ErrBadArgs = errors.New("bad arguments")
)

// Arg is one command argument.
type Arg string

func (a Arg) String() string { return string(a) }

// Float64 parses the argument as a number.
func (a Arg) Float64() (float64, error) {
	v, err := strconv.ParseFloat(string(a), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", string(a), ErrBadArgs)
	}
	return v, nil
}

type spec struct {
	args    int
	numeric bool
	usage   string
}

var commands = map[string]spec{
	"light":     {3, true, "light X Y Z"},
	"campos":    {3, true, "campos X Y Z"},
	"camrot":    {1, true, "camrot R"},
	"setobjpos": {3, true, "setobjpos X Y Z"},
	"move":      {3, true, "move DX DY DZ"},
	"zoom":      {1, true, "zoom Z"},
	"echo":      {1, false, "echo camrot|campos|lightpos"},
	"toggle":    {1, false, "toggle " + strings.Join(scene.ToggleNames, "|")},
}

// Command is a parsed line. The zero Command (blank line or comment) does
// nothing when applied.
type Command struct {
	Name string
	Args []Arg
}

// Empty reports whether the line held no command.
func (c Command) Empty() bool { return c.Name == "" }

// Parse tokenizes a line and checks the command name, argument count and
// numeric arguments.
func Parse(line string) (Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("tokenize %q: %w", line, err)
	}
	if len(words) == 0 {
		return Command{}, nil
	}
	name := strings.ToLower(words[0])
	sp, ok := commands[name]
	if !ok {
		return Command{}, fmt.Errorf("%q: %w", words[0], ErrUnknownCommand)
	}
	if len(words)-1 != sp.args {
		return Command{}, fmt.Errorf("usage: %s: %w", sp.usage, ErrBadArgs)
	}
	cmd := Command{Name: name, Args: make([]Arg, sp.args)}
	for i, w := range words[1:] {
		cmd.Args[i] = Arg(w)
		if sp.numeric {
			if _, err := cmd.Args[i].Float64(); err != nil {
				return Command{}, err
			}
		}
	}
	return cmd, nil
}

func (c Command) vec() math3d.Vec3 {
	x, _ := c.Args[0].Float64()
	y, _ := c.Args[1].Float64()
	z, _ := c.Args[2].Float64()
	return math3d.V3(x, y, z)
}

func (c Command) scalar() float64 {
	v, _ := c.Args[0].Float64()
	return v
}

// FormatVec3 renders a vector the way echo prints it.
func FormatVec3(v math3d.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Apply executes the command against the scene and returns the line to
// print back to the user.
func (c Command) Apply(s *scene.Scene) (string, error) {
	switch c.Name {
	case "":
		return "", nil
	case "light":
		l := s.Light()
		l.Position = c.vec()
		s.SetLight(l)
		return "Updated lightpos", nil
	case "campos":
		p := c.vec()
		s.UpdateCamera(func(cam *scene.Camera) { cam.Position = p })
		return "Updated Cam Position", nil
	case "camrot":
		r := c.scalar()
		s.UpdateCamera(func(cam *scene.Camera) {
			cam.Yaw = r
			cam.Pitch = r
		})
		return "Updated Cam rotation", nil
	case "move":
		d := c.vec()
		s.UpdateCamera(func(cam *scene.Camera) { cam.Move(d) })
		return "Moved camera", nil
	case "zoom":
		z := c.scalar()
		if z <= 0 {
			return "", fmt.Errorf("zoom must be positive, got %g: %w", z, ErrBadArgs)
		}
		s.UpdateCamera(func(cam *scene.Camera) { cam.Zoom = z })
		return "Updated zoom", nil
	case "setobjpos":
		if err := s.SetSelectedPosition(c.vec()); err != nil {
			return "", fmt.Errorf("setobjpos: %w", err)
		}
		return "Updated object position", nil
	case "echo":
		return c.echo(s)
	case "toggle":
		var on bool
		err := s.UpdateToggles(func(t *scene.Toggles) error {
			var err error
			on, err = t.Flip(c.Args[0].String())
			return err
		})
		if err != nil {
			return "", fmt.Errorf("toggle: %w", err)
		}
		state := "off"
		if on {
			state = "on"
		}
		return c.Args[0].String() + " " + state, nil
	}
	return "", fmt.Errorf("%q: %w", c.Name, ErrUnknownCommand)
}

func (c Command) echo(s *scene.Scene) (string, error) {
	switch strings.ToLower(c.Args[0].String()) {
	case "camrot":
		cam := s.Camera()
		return fmt.Sprintf("%g | %g", cam.Pitch, cam.Yaw), nil
	case "campos":
		return FormatVec3(s.Camera().Position), nil
	case "lightpos":
		return FormatVec3(s.Light().Position), nil
	}
	return "", fmt.Errorf("echo %q: %w", c.Args[0].String(), ErrBadArgs)
}

// Exec parses and applies one line.
func Exec(s *scene.Scene, line string) (string, error) {
	cmd, err := Parse(line)
	if err != nil {
		return "", err
	}
	return cmd.Apply(s)
}
