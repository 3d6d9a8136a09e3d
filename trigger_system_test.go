package snapsocket

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type overlapEvent struct {
	Kind   string
	Object uint64
}

type fakeTrigger struct {
	id     uint64
	radius float32
	err    error
	events []overlapEvent
}

func (f *fakeTrigger) ID() uint64             { return f.id }
func (f *fakeTrigger) TriggerRadius() float32 { return f.radius }
func (f *fakeTrigger) OnOverlap(c uint64) (Verdict, error) {
	f.events = append(f.events, overlapEvent{"overlap", c})
	return VerdictRejected, f.err
}
func (f *fakeTrigger) OnOverlapEnd(c uint64) {
	f.events = append(f.events, overlapEvent{"end", c})
}

func (f *fakeTrigger) take() []overlapEvent {
	evs := f.events
	f.events = nil
	return evs
}

func TestTriggerSystemEvents(t *testing.T) {
	g := NewSceneGraph()
	anchor := g.Add(NewSceneObject("Socket", mgl32.Vec3{}, mgl32.QuatIdent()))
	anchor.Interactable = false
	a := g.Add(NewSceneObject("A", mgl32.Vec3{0.3, 0, 0}, mgl32.QuatIdent()))
	b := g.Add(NewSceneObject("B", mgl32.Vec3{0, 0, 0.65}, mgl32.QuatIdent()))
	b.Radius = 0.2
	g.Add(NewSceneObject("Far", mgl32.Vec3{2, 0, 0}, mgl32.QuatIdent()))
	hand := g.Add(NewSceneObject("Hand", mgl32.Vec3{}, mgl32.QuatIdent()))
	hand.Interactable = false
	touching := g.Add(NewSceneObject("Touching", mgl32.Vec3{0, 0.5, 0}, mgl32.QuatIdent()))

	trig := &fakeTrigger{id: anchor.ID(), radius: 0.5}
	ts := &TriggerSystem{Scene: g}
	ts.Add(trig)

	ts.Update(0.1)
	want := []overlapEvent{{"overlap", a.ID()}, {"overlap", b.ID()}, {"overlap", touching.ID()}}
	if diff := cmp.Diff(want, trig.take()); diff != "" {
		t.Errorf("first frame mismatch (-want +got):\n%s", diff)
	}

	g.SetPosition(a.ID(), mgl32.Vec3{3, 0, 0})
	ts.Update(0.1)
	want = []overlapEvent{{"overlap", b.ID()}, {"overlap", touching.ID()}, {"end", a.ID()}}
	if diff := cmp.Diff(want, trig.take()); diff != "" {
		t.Errorf("second frame mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []uint64{b.ID(), touching.ID()}, ts.Overlapping(anchor.ID()))

	// a destroyed object is forgotten without an end event
	g.Remove(b.BasicEntity)
	ts.Remove(b.BasicEntity)
	ts.Update(0.1)
	assert.Equal(t, []overlapEvent{{"overlap", touching.ID()}}, trig.take())

	ts.Remove(anchor.BasicEntity)
	ts.Update(0.1)
	assert.Empty(t, trig.take())
	assert.Empty(t, ts.Overlapping(anchor.ID()))
}

// globalHook records the standard logger until the test ends.
func globalHook(t *testing.T) *test.Hook {
	t.Helper()
	hook := test.NewGlobal()
	t.Cleanup(func() { log.StandardLogger().ReplaceHooks(make(log.LevelHooks)) })
	return hook
}

func TestTriggerSystemWarnsOnEnterOnly(t *testing.T) {
	hook := globalHook(t)

	g := NewSceneGraph()
	anchor := g.Add(NewSceneObject("Socket", mgl32.Vec3{}, mgl32.QuatIdent()))
	anchor.Interactable = false
	g.Add(NewSceneObject("Ghost", mgl32.Vec3{0.1, 0, 0}, mgl32.QuatIdent()))

	ts := &TriggerSystem{Scene: g}
	ts.Add(&fakeTrigger{id: anchor.ID(), radius: 0.5, err: ErrNotTintable})
	for i := 0; i < 5; i++ {
		ts.Update(0.1)
	}

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestGlobalHookIsRemoved(t *testing.T) {
	t.Run("install", func(t *testing.T) {
		globalHook(t)
		assert.NotEmpty(t, log.StandardLogger().Hooks)
	})
	assert.Empty(t, log.StandardLogger().Hooks)
}
