package snapsocket

import (
	"github.com/EngoEngine/ecs"
	log "github.com/sirupsen/logrus"
)

// Trigger is a spherical volume receiving overlap events.
type Trigger interface {
	ID() uint64
	TriggerRadius() float32
	OnOverlap(candidate uint64) (Verdict, error)
	OnOverlapEnd(candidate uint64)
}

// TriggerSystem reports interactable objects overlapping each trigger. Enter
// and stay are both delivered through OnOverlap, every tick, in the order the
// objects were added to the scene; exit goes through OnOverlapEnd.
type TriggerSystem struct {
	Scene *SceneGraph

	triggers []Trigger
	inside   map[uint64][]uint64
}

func (ts *TriggerSystem) Add(t Trigger) {
	if ts.inside == nil {
		ts.inside = map[uint64][]uint64{}
	}
	ts.triggers = append(ts.triggers, t)
}

// Remove drops a trigger, or forgets an object that left the scene.
func (ts *TriggerSystem) Remove(ent ecs.BasicEntity) {
	idx := -1
	for i, t := range ts.triggers {
		if t.ID() == ent.ID() {
			idx = i
		}
	}
	if idx != -1 {
		ts.triggers = append(ts.triggers[:idx], ts.triggers[idx+1:]...)
		delete(ts.inside, ent.ID())
		return
	}
	for tid, ids := range ts.inside {
		ts.inside[tid] = without(ids, ent.ID())
	}
}

// Overlapping returns the objects currently inside a trigger.
func (ts *TriggerSystem) Overlapping(trigger uint64) []uint64 {
	return append([]uint64(nil), ts.inside[trigger]...)
}

func (ts *TriggerSystem) Update(dt float32) {
	for _, t := range ts.triggers {
		tt, ok := ts.Scene.Transform(t.ID())
		if !ok {
			continue
		}
		prev := ts.inside[t.ID()]
		var now []uint64

		for _, obj := range ts.Scene.Objects() {
			if !obj.Interactable || obj.ID() == t.ID() {
				continue
			}
			dist := obj.Position.Sub(tt.Position).Len()
			if dist-obj.Radius-t.TriggerRadius() > 0 {
				continue
			}
			now = append(now, obj.ID())

			_, err := t.OnOverlap(obj.ID())
			if err != nil && !contains(prev, obj.ID()) {
				log.WithFields(log.Fields{"trigger": t.ID(), "object": obj.Name}).WithError(err).Warn("overlap ignored")
			}
		}

		for _, id := range prev {
			if !contains(now, id) {
				t.OnOverlapEnd(id)
			}
		}
		ts.inside[t.ID()] = now
	}
}

func contains(ids []uint64, id uint64) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

func without(ids []uint64, id uint64) []uint64 {
	out := ids[:0]
	for _, i := range ids {
		if i != id {
			out = append(out, i)
		}
	}
	return out
}
