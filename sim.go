package snapsocket

import (
	"fmt"

	"github.com/EngoEngine/ecs"
	log "github.com/sirupsen/logrus"
)

// Sim is a scene built from a Scenario, with its systems registered in an
// ecs.World in frame order: script, player, triggers, sockets.
type Sim struct {
	World    *ecs.World
	Scene    *SceneGraph
	Left     *Hand
	Right    *Hand
	Hands    *Hands
	Joystick *Joystick

	Script   *ScriptSystem
	Players  *PlayerSystem
	Triggers *TriggerSystem
	Sockets  *SocketSystem

	Elapsed float32

	scenario *Scenario
	sockets  map[string]*Socket
}

// NewSim builds sc into w, or into a new world when w is nil.
func NewSim(sc *Scenario, cfg Config, w *ecs.World, opts ...SocketOption) (*Sim, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = &ecs.World{}
	}
	s := &Sim{
		World:    w,
		Scene:    NewSceneGraph(),
		Left:     NewHand(cfg.Hands.Left),
		Right:    NewHand(cfg.Hands.Right),
		Players:  &PlayerSystem{},
		Sockets:  &SocketSystem{},
		scenario: sc,
		sockets:  map[string]*Socket{},
	}
	s.Players.Scene = s.Scene
	s.Triggers = &TriggerSystem{Scene: s.Scene}
	s.Script = &ScriptSystem{Sim: s, Steps: sc.Steps}

	hands, err := ResolveHands(HandSet{s.Left.Name: s.Left, s.Right.Name: s.Right}, cfg.Hands.Left, cfg.Hands.Right)
	if err != nil {
		return nil, err
	}
	s.Hands = hands

	for _, o := range sc.Objects {
		obj := NewSceneObject(o.Name, vec3(o.Position), eulerQuat(o.Rotation))
		obj.Radius = o.Radius
		obj.Interactable = o.Socket == nil
		if o.Interactable != nil {
			obj.Interactable = *o.Interactable
		}
		if o.Tintable != nil && !*o.Tintable {
			obj.Material = nil
		}
		s.Scene.Add(obj)
	}

	for _, o := range sc.Objects {
		if o.Socket == nil {
			continue
		}
		obj, _ := s.Scene.Find(o.Name)
		sock, err := NewSocket(obj.ID(), o.Socket.apply(cfg.Socket), s.Scene, s.Hands, opts...)
		if err != nil {
			return nil, fmt.Errorf("socket %q: %w", o.Name, err)
		}
		s.sockets[o.Name] = sock
		s.Triggers.Add(sock)
		s.Sockets.Add(sock)
	}

	left := &Joystick{DeviceName: cfg.Hands.Left, Traits: CharacteristicLeft | CharacteristicController | CharacteristicHeldInHand | CharacteristicTrackedDevice}
	right := &Joystick{DeviceName: cfg.Hands.Right, Traits: CharacteristicRight | CharacteristicController | CharacteristicHeldInHand | CharacteristicTrackedDevice}
	dev, err := FindDevice([]InputDevice{left, right}, CharacteristicRight|CharacteristicController)
	if err != nil {
		return nil, err
	}
	s.Joystick = dev.(*Joystick)
	if sc.Rig != "" {
		rig, _ := s.Scene.Find(sc.Rig)
		s.Players.Add(&Player{Rig: rig.ID(), Device: s.Joystick})
	}

	w.AddSystem(s.Script)
	w.AddSystem(s.Players)
	w.AddSystem(s.Triggers)
	w.AddSystem(s.Sockets)
	return s, nil
}

func (s *Sim) Scenario() *Scenario { return s.scenario }

// Duration is the scenario's duration, or fallback when it has none.
func (s *Sim) Duration(fallback float32) float32 {
	if s.scenario.Duration > 0 {
		return s.scenario.Duration
	}
	return fallback
}

// Step advances the world by dt.
func (s *Sim) Step(dt float32) {
	s.World.Update(dt)
	s.Elapsed += dt
}

// Socket returns the socket built for the named object.
func (s *Sim) Socket(name string) (*Socket, bool) {
	sock, ok := s.sockets[name]
	return sock, ok
}

// Object returns the id of the named object.
func (s *Sim) Object(name string) (uint64, bool) {
	obj, ok := s.Scene.Find(name)
	if !ok {
		return 0, false
	}
	return obj.ID(), true
}

// Name returns the name of an object, or its id when it is gone.
func (s *Sim) Name(id uint64) string {
	if obj, ok := s.Scene.Get(id); ok {
		return obj.Name
	}
	return fmt.Sprintf("#%d", id)
}

// SocketNames lists the sockets still in the scene, in scenario order.
func (s *Sim) SocketNames() []string {
	var names []string
	for _, o := range s.scenario.Objects {
		if _, ok := s.sockets[o.Name]; ok {
			names = append(names, o.Name)
		}
	}
	return names
}

// Candidates lists the interactable objects, in scene order.
func (s *Sim) Candidates() []*SceneObject {
	var objs []*SceneObject
	for _, obj := range s.Scene.Objects() {
		if obj.Interactable {
			objs = append(objs, obj)
		}
	}
	return objs
}

func (s *Sim) Hand(side string) (*Hand, error) {
	switch side {
	case "left":
		return s.Left, nil
	case "right":
		return s.Right, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrHandNotFound, side)
}

// Remove destroys the named object and tells every system about it.
func (s *Sim) Remove(name string) error {
	obj, ok := s.Scene.Find(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownObject)
	}
	s.Left.Deselect(obj.ID())
	s.Right.Deselect(obj.ID())
	s.World.RemoveEntity(obj.BasicEntity)
	s.Scene.Remove(obj.BasicEntity)
	delete(s.sockets, name)
	return nil
}

// Apply runs one scenario step.
func (s *Sim) Apply(st Step) error {
	var id uint64
	if st.Object != "" {
		var ok bool
		if id, ok = s.Object(st.Object); !ok {
			return fmt.Errorf("%s: %q: %w", st, st.Object, ErrUnknownObject)
		}
	}
	var sock *Socket
	if st.Socket != "" {
		var ok bool
		if sock, ok = s.Socket(st.Socket); !ok {
			return fmt.Errorf("%s: socket %q: %w", st, st.Socket, ErrUnknownObject)
		}
	}

	switch st.Action {
	case ActionOverlap, ActionExit, ActionRelease:
		if sock == nil {
			return fmt.Errorf("%w: %s needs a socket", ErrInvalidScenario, st)
		}
	case ActionStick:
		if len(st.Value) != 2 {
			return fmt.Errorf("%w: %s takes 2 values", ErrInvalidScenario, st)
		}
	}

	switch st.Action {
	case ActionOverlap:
		v, err := sock.OnOverlap(id)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"object": st.Object, "socket": st.Socket, "verdict": v}).Debug("overlap")
	case ActionExit:
		sock.OnOverlapEnd(id)
	case ActionGrab, ActionDrop:
		h, err := s.Hand(st.Hand)
		if err != nil {
			return err
		}
		if st.Action == ActionGrab {
			h.Select(id)
		} else {
			h.Deselect(id)
		}
	case ActionMove:
		s.Scene.SetPosition(id, vec3(st.Value))
	case ActionRotate:
		s.Scene.SetRotation(id, eulerQuat(st.Value))
	case ActionAttach:
		to, ok := s.Object(st.To)
		if !ok {
			return fmt.Errorf("%s: %q: %w", st, st.To, ErrUnknownObject)
		}
		s.Scene.Attach(to, id)
	case ActionRemove:
		return s.Remove(st.Object)
	case ActionRelease:
		sock.Release()
	case ActionStick:
		s.Joystick.Axis[0], s.Joystick.Axis[1] = st.Value[0], st.Value[1]
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidScenario, st.Action)
	}
	return nil
}
