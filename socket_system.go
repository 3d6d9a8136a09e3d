package snapsocket

import (
	"github.com/EngoEngine/ecs"
)

// System priorities, higher runs first within a world update.
const (
	PriorityScript = 40 - iota*10
	PriorityPlayer
	PriorityTrigger
	PrioritySocket
)

// SocketSystem ticks sockets once per frame, after triggers have delivered
// the frame's overlap events.
type SocketSystem struct {
	sockets []*Socket
}

func (ss *SocketSystem) Add(s *Socket) {
	ss.sockets = append(ss.sockets, s)
}

func (ss *SocketSystem) Sockets() []*Socket {
	return append([]*Socket(nil), ss.sockets...)
}

// Remove drops the socket whose anchor is ent. An occupant is released first.
func (ss *SocketSystem) Remove(ent ecs.BasicEntity) {
	idx := -1
	for i, s := range ss.sockets {
		if s.ID() == ent.ID() {
			idx = i
		}
	}
	if idx != -1 {
		ss.sockets[idx].Release()
		ss.sockets = append(ss.sockets[:idx], ss.sockets[idx+1:]...)
	}
}

func (ss *SocketSystem) Update(dt float32) {
	for _, s := range ss.sockets {
		s.Update(dt)
	}
}

func (*SocketSystem) Priority() int  { return PrioritySocket }
func (*TriggerSystem) Priority() int { return PriorityTrigger }
func (*PlayerSystem) Priority() int  { return PriorityPlayer }
