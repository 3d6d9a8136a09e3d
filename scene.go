package snapsocket

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Feedback tints applied to a candidate's surface.
var (
	Neutral  = color.RGBA{255, 255, 255, 255}
	Accepted = color.RGBA{0, 255, 0, 255}
	Rejected = color.RGBA{255, 0, 0, 255}
)

// Transform is a world-space pose.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Forward is the +Z axis of the pose.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
}

// Right is the +X axis of the pose.
func (t Transform) Right() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// Tintable is the capability a candidate needs to receive visual feedback.
type Tintable interface {
	Tint() color.RGBA
	SetTint(c color.RGBA)
}

// Scene is the host's hierarchical transform graph as seen by a socket.
// Sockets address objects by id and never hold on to them.
type Scene interface {
	Transform(id uint64) (Transform, bool)
	SetPosition(id uint64, pos mgl32.Vec3)
	// ClosestPoint returns the point of the object's volume nearest to a
	// world-space position.
	ClosestPoint(id uint64, to mgl32.Vec3) (mgl32.Vec3, bool)
	Surface(id uint64) (Tintable, bool)

	Parent(id uint64) (uint64, bool)
	Children(id uint64) []uint64
	// Attach makes child a child of owner, detaching it from any previous parent.
	Attach(owner, child uint64)
	Detach(child uint64)
}
