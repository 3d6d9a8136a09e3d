package snapsocket

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// GizmoView is a top-down orthographic camera looking down -Y. Screen right is
// +X and screen up is +Z.
type GizmoView struct {
	Size       int
	Scale      float32 // pixels per world unit
	Center     mgl32.Vec3
	Background color.RGBA
	LineWidth  float32
}

func DefaultGizmoView() GizmoView {
	return GizmoView{
		Size:       256,
		Scale:      160,
		Background: color.RGBA{255, 255, 255, 255},
		LineWidth:  2,
	}
}

func (v GizmoView) project(p mgl32.Vec3) (float32, float32) {
	half := float32(v.Size) / 2
	return half + (p[0]-v.Center[0])*v.Scale, half - (p[2]-v.Center[2])*v.Scale
}

const circleSegments = 64

// RenderGizmos rasterizes gizmos into a square image.
func RenderGizmos(gizmos []Gizmo, v GizmoView) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, v.Size, v.Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(v.Background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(v.Size, v.Size)
	for _, g := range gizmos {
		z.Reset(v.Size, v.Size)
		switch g.Type {
		case GizmoLine:
			ax, ay := v.project(g.P1)
			bx, by := v.project(g.P2)
			strokeSegment(z, ax, ay, bx, by, v.LineWidth)
		case GizmoSphere:
			cx, cy := v.project(g.Center)
			r := g.Radius * v.Scale
			for i := 0; i < circleSegments; i++ {
				a0 := 2 * math.Pi * float64(i) / circleSegments
				a1 := 2 * math.Pi * float64(i+1) / circleSegments
				strokeSegment(z,
					cx+r*float32(math.Cos(a0)), cy+r*float32(math.Sin(a0)),
					cx+r*float32(math.Cos(a1)), cy+r*float32(math.Sin(a1)),
					v.LineWidth)
			}
		}
		z.Draw(img, img.Bounds(), image.NewUniform(g.Color), image.Point{})
	}
	return img
}

// strokeSegment adds a quad of the given width around a segment.
func strokeSegment(z *vector.Rasterizer, ax, ay, bx, by, width float32) {
	dx, dy := bx-ax, by-ay
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}

// EncodeImage writes img as "png" or "webp".
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
