package snapsocket

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

type GizmoType int

const (
	GizmoLine GizmoType = iota
	GizmoSphere
)

// GizmoArrowLength is the length of the orientation arrow; its arms are a
// quarter of it.
const GizmoArrowLength = 0.75

var (
	gizmoSphereColor = color.RGBA{0, 0, 0, 255}
	gizmoArrowColor  = color.RGBA{255, 0, 0, 255}
)

// Gizmo represents a debug shape to be drawn.
type Gizmo struct {
	Type  GizmoType
	Color color.RGBA

	// For Sphere.
	Center mgl32.Vec3
	Radius float32

	// For Line: P1 is Start, P2 is End.
	P1, P2 mgl32.Vec3
}

// Gizmos returns the capture sphere followed by the three segments of the
// forward arrow. It has no effect on the socket.
func (s *Socket) Gizmos() []Gizmo {
	t, ok := s.scene.Transform(s.id)
	if !ok {
		return nil
	}
	return SocketGizmos(t, s.cfg.Radius)
}

func SocketGizmos(t Transform, radius float32) []Gizmo {
	forward := t.Forward()
	right := t.Right()
	arms := float32(GizmoArrowLength / 4)
	end := t.Position.Add(forward.Mul(GizmoArrowLength))

	line := func(a, b mgl32.Vec3) Gizmo {
		return Gizmo{Type: GizmoLine, Color: gizmoArrowColor, P1: a, P2: b}
	}
	return []Gizmo{
		{Type: GizmoSphere, Color: gizmoSphereColor, Center: t.Position, Radius: radius},
		line(t.Position, end),
		line(end, right.Sub(forward).Mul(arms).Add(end)),
		line(end, right.Mul(-1).Sub(forward).Mul(arms).Add(end)),
	}
}

// ObjectGizmo marks an object with its bounding sphere in its current tint.
func ObjectGizmo(obj *SceneObject) Gizmo {
	c := color.RGBA{128, 128, 128, 255}
	if obj.Material != nil && obj.Material.Color != Neutral {
		c = obj.Material.Color
	}
	r := obj.Radius
	if r == 0 {
		r = 0.02
	}
	return Gizmo{Type: GizmoSphere, Color: c, Center: obj.Position, Radius: r}
}
