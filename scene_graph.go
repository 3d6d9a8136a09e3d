package snapsocket

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// Material is a tintable surface.
type Material struct {
	Color color.RGBA
}

func (m *Material) Tint() color.RGBA     { return m.Color }
func (m *Material) SetTint(c color.RGBA) { m.Color = c }

// SceneObject is a node of the SceneGraph.
type SceneObject struct {
	ecs.BasicEntity
	Transform

	Name string
	// Radius of the object's bounding sphere, zero for a point.
	Radius float32
	// Material is nil for objects that cannot be tinted.
	Material *Material
	// Interactable objects are reported to triggers.
	Interactable bool
}

// NewSceneObject creates an interactable point object with a neutral material.
func NewSceneObject(name string, pos mgl32.Vec3, rot mgl32.Quat) *SceneObject {
	return &SceneObject{
		BasicEntity:  ecs.NewBasic(),
		Transform:    Transform{Position: pos, Rotation: rot},
		Name:         name,
		Material:     &Material{Color: Neutral},
		Interactable: true,
	}
}

// SceneGraph is an in-memory Scene. Every object has at most one parent.
type SceneGraph struct {
	objects  map[uint64]*SceneObject
	order    []uint64
	parents  map[uint64]uint64
	children map[uint64][]uint64
}

func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		objects:  map[uint64]*SceneObject{},
		parents:  map[uint64]uint64{},
		children: map[uint64][]uint64{},
	}
}

// Add registers obj. Objects are enumerated in the order they were added.
func (g *SceneGraph) Add(obj *SceneObject) *SceneObject {
	id := obj.ID()
	if _, ok := g.objects[id]; !ok {
		g.order = append(g.order, id)
	}
	g.objects[id] = obj
	return obj
}

// Remove destroys an object, detaching it and orphaning its children.
func (g *SceneGraph) Remove(e ecs.BasicEntity) {
	id := e.ID()
	if _, ok := g.objects[id]; !ok {
		return
	}
	g.Detach(id)
	for _, c := range g.children[id] {
		delete(g.parents, c)
	}
	delete(g.children, id)
	delete(g.objects, id)
	for i, o := range g.order {
		if o == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func (g *SceneGraph) Get(id uint64) (*SceneObject, bool) {
	obj, ok := g.objects[id]
	return obj, ok
}

// Find returns the first object with the given name.
func (g *SceneGraph) Find(name string) (*SceneObject, bool) {
	for _, id := range g.order {
		if obj := g.objects[id]; obj.Name == name {
			return obj, true
		}
	}
	return nil, false
}

// Objects returns every object in registration order.
func (g *SceneGraph) Objects() []*SceneObject {
	objs := make([]*SceneObject, 0, len(g.order))
	for _, id := range g.order {
		objs = append(objs, g.objects[id])
	}
	return objs
}

func (g *SceneGraph) Transform(id uint64) (Transform, bool) {
	obj, ok := g.objects[id]
	if !ok {
		return Transform{}, false
	}
	return obj.Transform, true
}

func (g *SceneGraph) SetPosition(id uint64, pos mgl32.Vec3) {
	if obj, ok := g.objects[id]; ok {
		obj.Position = pos
	}
}

func (g *SceneGraph) SetRotation(id uint64, rot mgl32.Quat) {
	if obj, ok := g.objects[id]; ok {
		obj.Rotation = rot
	}
}

func (g *SceneGraph) ClosestPoint(id uint64, to mgl32.Vec3) (mgl32.Vec3, bool) {
	obj, ok := g.objects[id]
	if !ok {
		return mgl32.Vec3{}, false
	}
	offset := to.Sub(obj.Position)
	dist := offset.Len()
	if dist <= obj.Radius {
		return to, true
	}
	return obj.Position.Add(offset.Mul(obj.Radius / dist)), true
}

func (g *SceneGraph) Surface(id uint64) (Tintable, bool) {
	obj, ok := g.objects[id]
	if !ok || obj.Material == nil {
		return nil, false
	}
	return obj.Material, true
}

func (g *SceneGraph) Parent(id uint64) (uint64, bool) {
	p, ok := g.parents[id]
	return p, ok
}

func (g *SceneGraph) Children(id uint64) []uint64 {
	kids := g.children[id]
	out := make([]uint64, len(kids))
	copy(out, kids)
	return out
}

func (g *SceneGraph) Attach(owner, child uint64) {
	if owner == child {
		return
	}
	if _, ok := g.objects[owner]; !ok {
		return
	}
	if _, ok := g.objects[child]; !ok {
		return
	}
	if p, ok := g.parents[child]; ok && p == owner {
		return
	}
	g.Detach(child)
	g.parents[child] = owner
	g.children[owner] = append(g.children[owner], child)
}

func (g *SceneGraph) Detach(child uint64) {
	p, ok := g.parents[child]
	if !ok {
		return
	}
	delete(g.parents, child)
	kids := g.children[p]
	for i, c := range kids {
		if c == child {
			g.children[p] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	if len(g.children[p]) == 0 {
		delete(g.children, p)
	}
}
