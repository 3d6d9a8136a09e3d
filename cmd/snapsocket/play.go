package main

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/ScottBrooks/snapsocket"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// PlayScene runs a scenario in real time inside engo's headless loop. Socket
// messages are forwarded to engo.Mailbox.
type PlayScene struct {
	Scenario *snapsocket.Scenario
	Config   snapsocket.Config

	sim     *snapsocket.Sim
	journal *snapsocket.Journal
	err     error
}

// TimeoutSystem exits the engine once the scenario has run its course.
type TimeoutSystem struct {
	Sim      *snapsocket.Sim
	Duration float32

	elapsed float32
}

func (*TimeoutSystem) Remove(ecs.BasicEntity) {}
func (ts *TimeoutSystem) Update(dt float32) {
	ts.elapsed += dt
	ts.Sim.Elapsed = ts.elapsed
	if ts.elapsed >= ts.Duration {
		engo.Exit()
	}
}

func (*PlayScene) Preload() {}
func (ps *PlayScene) Setup(u engo.Updater) {
	w, _ := u.(*ecs.World)

	bridge := snapsocket.MailboxFunc(func(msg snapsocket.Message) {
		engo.Mailbox.Dispatch(msg)
	})
	metrics, err := snapsocket.NewMetricsMailbox(nil)
	if err != nil {
		ps.fail(err)
		return
	}
	boxes := snapsocket.Mailboxes{bridge, metrics}
	if ps.Config.Journal.Path != "" {
		j, err := snapsocket.OpenJournal(ps.Config.Journal.Path)
		if err != nil {
			ps.fail(err)
			return
		}
		ps.journal = j
		boxes = append(boxes, j)
	}

	ps.sim, err = snapsocket.NewSim(ps.Scenario, ps.Config, w, snapsocket.WithMailbox(boxes))
	if err != nil {
		ps.fail(err)
		return
	}
	w.AddSystem(&TimeoutSystem{Sim: ps.sim, Duration: ps.sim.Duration(ps.Config.Sim.Duration)})

	engo.Mailbox.Listen(snapsocket.SocketCapturedMessage{}.Type(), func(msg engo.Message) {
		m, ok := msg.(snapsocket.SocketCapturedMessage)
		if !ok {
			return
		}
		log.Infof("%s captured %s at %.1f degrees", ps.sim.Name(m.Socket), ps.sim.Name(m.Object), m.Angle)
	})
	engo.Mailbox.Listen(snapsocket.SocketRejectedMessage{}.Type(), func(msg engo.Message) {
		m, ok := msg.(snapsocket.SocketRejectedMessage)
		if !ok {
			return
		}
		log.Infof("%s refused %s: %s", ps.sim.Name(m.Socket), ps.sim.Name(m.Object), m.Verdict)
	})
	engo.Mailbox.Listen(snapsocket.SocketReleasedMessage{}.Type(), func(msg engo.Message) {
		m, ok := msg.(snapsocket.SocketReleasedMessage)
		if !ok {
			return
		}
		log.Infof("%s released %s: %s", ps.sim.Name(m.Socket), ps.sim.Name(m.Object), m.Reason)
	})
}
func (*PlayScene) Type() string { return "SnapSocket" }

func (ps *PlayScene) fail(err error) {
	ps.err = err
	engo.Exit()
}

func playCmd() *cobra.Command {
	var fps int
	cmd := &cobra.Command{
		Use:   "play",
		Short: "run a scenario in real time in a headless engine loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario()
			if err != nil {
				return err
			}
			opts := engo.RunOptions{
				Title:        "SnapSocket",
				HeadlessMode: true,
				FPSLimit:     fps,
			}
			ps := PlayScene{Scenario: sc, Config: cfg}
			engo.Run(opts, &ps)
			if ps.journal != nil {
				ps.journal.Close()
			}
			return ps.err
		},
	}
	addScenarioFlag(cmd)
	cmd.Flags().IntVar(&fps, "fps", 90, "frames per second")
	return cmd
}
