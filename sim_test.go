package snapsocket

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = float32(1.0 / 90)

func newSim(t *testing.T, doc string) (*Sim, *Recorder) {
	t.Helper()
	sc, err := ParseScenario([]byte(doc))
	require.NoError(t, err)
	rec := &Recorder{}
	sim, err := NewSim(sc, DefaultConfig(), nil, WithMailbox(rec))
	require.NoError(t, err)
	return sim, rec
}

func run(sim *Sim, seconds float32) {
	for end := sim.Elapsed + seconds; sim.Elapsed < end; {
		sim.Step(frame)
	}
}

func id(t *testing.T, sim *Sim, name string) uint64 {
	t.Helper()
	i, ok := sim.Object(name)
	require.True(t, ok, name)
	return i
}

func TestSimDemo(t *testing.T) {
	rec := &Recorder{}
	sim, err := NewSim(DemoScenario(), DefaultConfig(), nil, WithMailbox(rec))
	require.NoError(t, err)
	run(sim, sim.Duration(0))

	sock, ok := sim.Socket("Socket")
	require.True(t, ok)
	socket, cube, key := sock.ID(), id(t, sim, "Cube"), id(t, sim, "Key")

	want := []Message{
		SocketCapturedMessage{Socket: socket, Object: cube},
		SocketReleasedMessage{Socket: socket, Object: cube, Reason: ReleaseGrabbed},
		SocketRejectedMessage{Socket: socket, Object: cube, Verdict: VerdictHeld},
		SocketRejectedMessage{Socket: socket, Object: key, Verdict: VerdictRejected},
		SocketCapturedMessage{Socket: socket, Object: cube},
	}
	opts := cmp.Options{
		cmpopts.IgnoreFields(SocketCapturedMessage{}, "Angle"),
		cmpopts.IgnoreFields(SocketRejectedMessage{}, "Angle"),
	}
	if diff := cmp.Diff(want, rec.Messages, opts); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}

	occ, ok := sock.Occupant()
	require.True(t, ok)
	assert.Equal(t, cube, occ)

	c, _ := sim.Scene.Get(cube)
	anchor, _ := sim.Scene.Transform(socket)
	assert.Equal(t, anchor.Position, c.Position)
	assert.Equal(t, Accepted, c.Material.Tint())

	k, _ := sim.Scene.Get(key)
	assert.Equal(t, Rejected, k.Material.Tint())

	rig, _ := sim.Scene.Find("XR Rig")
	assert.InDelta(t, 0.25, rig.Position[0], 0.02)
	assert.True(t, sim.Script.Done())
}

const stealDoc = `
name: steal
objects:
  - {name: Socket, socket: {}}
  - {name: Shelf, position: [4, 0, 0], interactable: false}
  - {name: Cube, position: [0.2, 0, 0]}
steps:
  - {at: 0.1, action: attach, object: Cube, to: Shelf}
`

func TestSimStolenOccupant(t *testing.T) {
	sim, rec := newSim(t, stealDoc)
	run(sim, 0.3)

	sock, _ := sim.Socket("Socket")
	assert.Equal(t, Empty, sock.State())
	p, ok := sim.Scene.Parent(id(t, sim, "Cube"))
	require.True(t, ok)
	assert.Equal(t, id(t, sim, "Shelf"), p)

	last := rec.Messages[len(rec.Messages)-1]
	assert.Equal(t, SocketReleasedMessage{Socket: sock.ID(), Object: id(t, sim, "Cube"), Reason: ReleaseStolen}, last)
	// owned elsewhere, so it is not offered again
	assert.Equal(t, 1, rec.Count(SocketCapturedMessage{}.Type()))
}

func TestSimRemovals(t *testing.T) {
	var tests = []struct {
		remove string
		reason ReleaseReason
	}{
		{"Cube", ReleaseVanished},
		{"Socket", ReleaseManual},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("removing %s", tt.remove), func(t *testing.T) {
			sim, rec := newSim(t, fmt.Sprintf(`
name: remove
objects:
  - {name: Socket, socket: {}}
  - {name: Cube, position: [0.2, 0, 0]}
steps:
  - {at: 0.1, action: remove, object: %s}
`, tt.remove))
			run(sim, 0.3)

			_, ok := sim.Object(tt.remove)
			assert.False(t, ok)
			require.NotEmpty(t, rec.Messages)
			last, ok := rec.Messages[len(rec.Messages)-1].(SocketReleasedMessage)
			require.True(t, ok)
			assert.Equal(t, tt.reason, last.Reason)
		})
	}
}

func TestSimManualEvents(t *testing.T) {
	sim, rec := newSim(t, `
name: manual
objects:
  - {name: Socket, socket: {radius: 0.1}}
  - {name: Cube, position: [3, 0, 0], rotation: [0, 0, 45]}
steps:
  - {at: 0, action: overlap, socket: Socket, object: Cube}
  - {at: 0.1, action: move, object: Cube, value: [5, 0, 0]}
  - {at: 0.1, action: exit, socket: Socket, object: Cube}
  - {at: 0.2, action: rotate, object: Cube, value: [0, 0, 0]}
  - {at: 0.2, action: overlap, socket: Socket, object: Cube}
  - {at: 0.3, action: release, socket: Socket}
`)
	run(sim, 0.5)

	var reasons []string
	for _, m := range rec.Messages {
		switch m := m.(type) {
		case SocketCapturedMessage:
			reasons = append(reasons, "captured")
		case SocketReleasedMessage:
			reasons = append(reasons, m.Reason.String())
		}
	}
	assert.Equal(t, []string{"captured", "exited", "captured", "manual"}, reasons)
}

func TestSimApplyErrors(t *testing.T) {
	sim, _ := newSim(t, "name: empty\nobjects:\n  - {name: Socket, socket: {}}\n  - {name: A}\n")

	assert.ErrorIs(t, sim.Apply(Step{Action: ActionMove, Object: "B", Value: []float32{0, 0, 0}}), ErrUnknownObject)
	assert.ErrorIs(t, sim.Apply(Step{Action: ActionExit, Object: "A"}), ErrInvalidScenario)
	assert.ErrorIs(t, sim.Apply(Step{Action: ActionGrab, Object: "A", Hand: "third"}), ErrHandNotFound)
	assert.ErrorIs(t, sim.Apply(Step{Action: "fly", Object: "A"}), ErrInvalidScenario)
	assert.ErrorIs(t, sim.Apply(Step{Action: ActionStick}), ErrInvalidScenario)
	assert.NoError(t, sim.Apply(Step{Action: ActionStick, Value: []float32{1, 0}}))
}

func TestScriptSystemTiming(t *testing.T) {
	sim, _ := newSim(t, `
name: timing
objects:
  - {name: A}
steps:
  - {at: 0, action: move, object: A, value: [1, 0, 0]}
  - {at: 0.05, action: move, object: A, value: [2, 0, 0]}
  - {at: 0.05, action: move, object: A, value: [3, 0, 0]}
`)
	a, _ := sim.Scene.Find("A")

	sim.Step(0.02)
	assert.Equal(t, float32(1), a.Position[0])
	assert.False(t, sim.Script.Done())

	sim.Step(0.02)
	assert.Equal(t, float32(1), a.Position[0])

	sim.Step(0.02)
	assert.Equal(t, float32(3), a.Position[0])
	assert.True(t, sim.Script.Done())
}

func TestNewSimErrors(t *testing.T) {
	sc, err := ParseScenario([]byte("name: bad\nobjects:\n  - {name: Socket, socket: {radius: -1}}\n"))
	require.NoError(t, err)
	_, err = NewSim(sc, DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrInvalidRadius)

	cfg := DefaultConfig()
	cfg.Hands.Right = cfg.Hands.Left
	_, err = NewSim(DemoScenario(), cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
