package snapsocket

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneGraphSingleParent(t *testing.T) {
	g := NewSceneGraph()
	a := g.Add(NewSceneObject("A", mgl32.Vec3{}, mgl32.QuatIdent()))
	b := g.Add(NewSceneObject("B", mgl32.Vec3{}, mgl32.QuatIdent()))
	c := g.Add(NewSceneObject("C", mgl32.Vec3{}, mgl32.QuatIdent()))

	g.Attach(a.ID(), c.ID())
	g.Attach(b.ID(), c.ID())

	p, ok := g.Parent(c.ID())
	require.True(t, ok)
	assert.Equal(t, b.ID(), p)
	assert.Empty(t, g.Children(a.ID()))
	assert.Equal(t, []uint64{c.ID()}, g.Children(b.ID()))

	// self and unknown ids are ignored
	g.Attach(c.ID(), c.ID())
	g.Attach(9999999, a.ID())
	_, ok = g.Parent(a.ID())
	assert.False(t, ok)

	g.Detach(c.ID())
	_, ok = g.Parent(c.ID())
	assert.False(t, ok)
	assert.Empty(t, g.Children(b.ID()))
	g.Detach(c.ID())
}

func TestSceneGraphRemoveOrphansChildren(t *testing.T) {
	g := NewSceneGraph()
	parent := g.Add(NewSceneObject("Parent", mgl32.Vec3{}, mgl32.QuatIdent()))
	child := g.Add(NewSceneObject("Child", mgl32.Vec3{}, mgl32.QuatIdent()))
	g.Attach(parent.ID(), child.ID())

	g.Remove(parent.BasicEntity)

	_, ok := g.Get(parent.ID())
	assert.False(t, ok)
	_, ok = g.Parent(child.ID())
	assert.False(t, ok)
	_, ok = g.Transform(parent.ID())
	assert.False(t, ok)
	assert.Equal(t, []*SceneObject{child}, g.Objects())
}

func TestSceneGraphOrderAndFind(t *testing.T) {
	g := NewSceneGraph()
	names := []string{"Rig", "Socket", "Cube", "Key"}
	for _, n := range names {
		g.Add(NewSceneObject(n, mgl32.Vec3{}, mgl32.QuatIdent()))
	}
	var got []string
	for _, obj := range g.Objects() {
		got = append(got, obj.Name)
	}
	assert.Equal(t, names, got)

	cube, ok := g.Find("Cube")
	require.True(t, ok)
	assert.Equal(t, "Cube", cube.Name)
	_, ok = g.Find("Nope")
	assert.False(t, ok)
}

func TestSceneGraphClosestPoint(t *testing.T) {
	g := NewSceneGraph()
	ball := g.Add(NewSceneObject("Ball", mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent()))
	ball.Radius = 0.25

	p, ok := g.ClosestPoint(ball.ID(), mgl32.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 0.75, p[0], 1e-6)

	inside := mgl32.Vec3{1.1, 0, 0}
	p, _ = g.ClosestPoint(ball.ID(), inside)
	assert.Equal(t, inside, p)

	_, ok = g.ClosestPoint(9999999, mgl32.Vec3{})
	assert.False(t, ok)
}

func TestSceneGraphSurface(t *testing.T) {
	g := NewSceneGraph()
	obj := g.Add(NewSceneObject("Cube", mgl32.Vec3{}, mgl32.QuatIdent()))

	s, ok := g.Surface(obj.ID())
	require.True(t, ok)
	s.SetTint(Rejected)
	assert.Equal(t, Rejected, obj.Material.Color)

	obj.Material = nil
	_, ok = g.Surface(obj.ID())
	assert.False(t, ok)
}

func TestTransformAxes(t *testing.T) {
	tr := Transform{Rotation: yaw(90)}
	f := tr.Forward()
	r := tr.Right()
	assert.InDelta(t, 1, f[0], 1e-6)
	assert.InDelta(t, 0, f[2], 1e-6)
	assert.InDelta(t, 0, r[0], 1e-6)
	assert.InDelta(t, -1, r[2], 1e-6)
}
