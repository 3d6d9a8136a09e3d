package snapsocket

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Action is what a scenario step does.
type Action string

const (
	ActionOverlap Action = "overlap" // deliver an overlap event to a socket
	ActionExit    Action = "exit"    // deliver an overlap end event to a socket
	ActionGrab    Action = "grab"
	ActionDrop    Action = "drop"
	ActionMove    Action = "move"
	ActionRotate  Action = "rotate"
	ActionAttach  Action = "attach" // reparent an object under another one
	ActionRemove  Action = "remove"
	ActionRelease Action = "release"
	ActionStick   Action = "stick" // set the right joystick axis
)

// Scenario describes a scene and a timeline of steps applied to it.
type Scenario struct {
	Name     string       `yaml:"name"`
	Duration float32      `yaml:"duration,omitempty"`
	Rig      string       `yaml:"rig,omitempty"`
	Objects  []ObjectSpec `yaml:"objects"`
	Steps    []Step       `yaml:"steps,omitempty"`
}

type ObjectSpec struct {
	Name     string    `yaml:"name"`
	Position []float32 `yaml:"position,omitempty"`
	// Rotation as XYZ euler angles in degrees.
	Rotation []float32 `yaml:"rotation,omitempty"`
	Radius   float32   `yaml:"radius,omitempty"`

	Socket       *SocketSpec `yaml:"socket,omitempty"`
	Tintable     *bool       `yaml:"tintable,omitempty"`
	Interactable *bool       `yaml:"interactable,omitempty"`
}

// SocketSpec overrides the configured socket defaults for one socket.
type SocketSpec struct {
	Radius         *float32 `yaml:"radius,omitempty"`
	AngleTolerance *float32 `yaml:"angleTolerance,omitempty"`
	LerpSpeed      *float32 `yaml:"lerpSpeed,omitempty"`
}

func (s *SocketSpec) apply(cfg SocketConfig) SocketConfig {
	if s.Radius != nil {
		cfg.Radius = *s.Radius
	}
	if s.AngleTolerance != nil {
		cfg.AngleTolerance = *s.AngleTolerance
	}
	if s.LerpSpeed != nil {
		cfg.LerpSpeed = *s.LerpSpeed
	}
	return cfg
}

type Step struct {
	At     float32   `yaml:"at"`
	Action Action    `yaml:"action"`
	Object string    `yaml:"object,omitempty"`
	Socket string    `yaml:"socket,omitempty"`
	Hand   string    `yaml:"hand,omitempty"`
	To     string    `yaml:"to,omitempty"`
	Value  []float32 `yaml:"value,omitempty"`
}

func (st Step) String() string {
	return fmt.Sprintf("%.3fs %s", st.At, st.Action)
}

//go:embed scenarios/demo.yaml
var demoScenario []byte

// DemoScenario is the built-in scenario used when none is given.
func DemoScenario() *Scenario {
	sc, err := ParseScenario(demoScenario)
	if err != nil {
		panic(err)
	}
	return sc
}

// LoadScenario reads a scenario from a yaml file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes and validates a scenario. Steps are ordered by time,
// keeping file order for steps sharing a time.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].At < sc.Steps[j].At })
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidScenario, fmt.Sprintf(format, args...))
	}
	if sc.Duration < 0 {
		return fail("negative duration %v", sc.Duration)
	}

	objects := map[string]*ObjectSpec{}
	for i := range sc.Objects {
		o := &sc.Objects[i]
		if o.Name == "" {
			return fail("object %d has no name", i)
		}
		if _, dup := objects[o.Name]; dup {
			return fail("duplicate object %q", o.Name)
		}
		if len(o.Position) != 0 && len(o.Position) != 3 {
			return fail("object %q: position needs 3 components", o.Name)
		}
		if len(o.Rotation) != 0 && len(o.Rotation) != 3 {
			return fail("object %q: rotation needs 3 components", o.Name)
		}
		if o.Radius < 0 {
			return fail("object %q: negative radius", o.Name)
		}
		objects[o.Name] = o
	}
	if sc.Rig != "" && objects[sc.Rig] == nil {
		return fail("unknown rig %q", sc.Rig)
	}

	for i, st := range sc.Steps {
		if st.At < 0 {
			return fail("step %d: negative time", i)
		}
		needObject := true
		needSocket := false
		values := 0
		switch st.Action {
		case ActionOverlap, ActionExit:
			needSocket = true
		case ActionGrab, ActionDrop:
			if st.Hand != "left" && st.Hand != "right" {
				return fail("step %d: hand must be left or right, got %q", i, st.Hand)
			}
		case ActionMove, ActionRotate:
			values = 3
		case ActionAttach:
			if objects[st.To] == nil {
				return fail("step %d: unknown parent %q", i, st.To)
			}
		case ActionRemove:
		case ActionRelease:
			needObject = false
			needSocket = true
		case ActionStick:
			needObject = false
			values = 2
		default:
			return fail("step %d: unknown action %q", i, st.Action)
		}
		if needObject && objects[st.Object] == nil {
			return fail("step %d: unknown object %q", i, st.Object)
		}
		if needSocket {
			if o := objects[st.Socket]; o == nil || o.Socket == nil {
				return fail("step %d: unknown socket %q", i, st.Socket)
			}
		}
		if len(st.Value) != values {
			return fail("step %d: %s takes %d values, got %d", i, st.Action, values, len(st.Value))
		}
	}
	return nil
}

func vec3(v []float32) mgl32.Vec3 {
	if len(v) != 3 {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// eulerQuat converts XYZ euler angles in degrees.
func eulerQuat(v []float32) mgl32.Quat {
	if len(v) != 3 {
		return mgl32.QuatIdent()
	}
	return mgl32.AnglesToQuat(mgl32.DegToRad(v[0]), mgl32.DegToRad(v[1]), mgl32.DegToRad(v[2]), mgl32.XYZ)
}

// YAML renders the scenario.
func (sc *Scenario) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
