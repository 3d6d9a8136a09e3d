package snapsocket

import (
	"github.com/EngoEngine/ecs"
	log "github.com/sirupsen/logrus"
)

// ScriptSystem plays a scenario timeline against a Sim. Steps must be sorted
// by time; every step due by the end of a frame runs at its start.
type ScriptSystem struct {
	Sim   *Sim
	Steps []Step

	elapsed float32
	next    int
}

func (*ScriptSystem) Remove(ecs.BasicEntity) {}
func (*ScriptSystem) Priority() int          { return PriorityScript }

func (ss *ScriptSystem) Update(dt float32) {
	ss.elapsed += dt
	for ss.next < len(ss.Steps) && ss.Steps[ss.next].At <= ss.elapsed {
		st := ss.Steps[ss.next]
		ss.next++
		if err := ss.Sim.Apply(st); err != nil {
			log.WithError(err).WithField("step", st.String()).Warn("step failed")
			continue
		}
		log.WithField("step", st.String()).Debug("step")
	}
}

// Done reports whether every step has run.
func (ss *ScriptSystem) Done() bool {
	return ss.next >= len(ss.Steps)
}
