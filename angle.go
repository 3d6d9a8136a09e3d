package snapsocket

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// identityDot is the |dot| above which two rotations count as identical.
const identityDot = 1 - 1e-6

// AngleBetween returns the shortest-path angle in degrees between two
// orientations. The result is always in [0, 180].
func AngleBetween(a, b mgl32.Quat) float32 {
	a = a.Normalize()
	b = b.Normalize()

	dot := float64(a.W)*float64(b.W) +
		float64(a.V[0])*float64(b.V[0]) +
		float64(a.V[1])*float64(b.V[1]) +
		float64(a.V[2])*float64(b.V[2])
	dot = math.Min(math.Abs(dot), 1)
	if dot > identityDot {
		return 0
	}
	return float32(2 * math.Acos(dot) * 180 / math.Pi)
}

// IsValidAngle reports whether candidate is within tolerance degrees of socket.
// The boundary is inclusive.
func IsValidAngle(candidate, socket mgl32.Quat, tolerance float32) bool {
	return AngleBetween(candidate, socket) <= tolerance
}
