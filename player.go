package snapsocket

import (
	"fmt"

	"github.com/EngoEngine/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// Characteristics describe an input device, as a bit set.
type Characteristics uint32

const (
	CharacteristicLeft Characteristics = 1 << iota
	CharacteristicRight
	CharacteristicController
	CharacteristicHeldInHand
	CharacteristicTrackedDevice
)

// InputDevice is a VR controller exposing a primary 2D axis.
type InputDevice interface {
	Name() string
	Characteristics() Characteristics
	// Primary2DAxis returns false when the device has no such feature.
	Primary2DAxis() (mgl32.Vec2, bool)
}

// FindDevice returns the first device carrying every characteristic in want.
func FindDevice(devices []InputDevice, want Characteristics) (InputDevice, error) {
	for _, d := range devices {
		if d.Characteristics()&want == want {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: characteristics %#x", ErrNoDevice, uint32(want))
}

// Joystick is an InputDevice whose axis is set by the host.
type Joystick struct {
	DeviceName string
	Traits     Characteristics
	Axis       mgl32.Vec2
}

func (j *Joystick) Name() string                      { return j.DeviceName }
func (j *Joystick) Characteristics() Characteristics  { return j.Traits }
func (j *Joystick) Primary2DAxis() (mgl32.Vec2, bool) { return j.Axis, true }

// Player moves a rig by the device's joystick, in world units per second.
type Player struct {
	Rig    uint64
	Device InputDevice
}

func (p *Player) Update(scene Scene, dt float32) {
	if p.Device == nil {
		return
	}
	axis, ok := p.Device.Primary2DAxis()
	if !ok {
		return
	}
	t, ok := scene.Transform(p.Rig)
	if !ok {
		return
	}
	scene.SetPosition(p.Rig, t.Position.Add(axis.Vec3(0).Mul(dt)))
}

// PlayerSystem ticks every registered Player.
type PlayerSystem struct {
	Scene   Scene
	Players []*Player
}

func (ps *PlayerSystem) Add(p *Player) {
	ps.Players = append(ps.Players, p)
}

func (ps *PlayerSystem) Remove(ent ecs.BasicEntity) {
	idx := -1
	for i, p := range ps.Players {
		if p.Rig == ent.ID() {
			idx = i
		}
	}
	if idx != -1 {
		ps.Players = append(ps.Players[:idx], ps.Players[idx+1:]...)
	}
}

func (ps *PlayerSystem) Update(dt float32) {
	for _, p := range ps.Players {
		p.Update(ps.Scene, dt)
	}
}
