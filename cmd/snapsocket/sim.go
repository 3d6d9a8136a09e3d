package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/ScottBrooks/snapsocket"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

func simCmd() *cobra.Command {
	var (
		dt          float32
		duration    float32
		journalPath string
		socketName  string
		track       string
	)
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "run a scenario with a fixed timestep and summarize it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dt") {
				cfg.Sim.DT = dt
			}
			if cmd.Flags().Changed("duration") {
				cfg.Sim.Duration = duration
			}
			if journalPath != "" {
				cfg.Journal.Path = journalPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			rec := &snapsocket.Recorder{}
			metrics, err := snapsocket.NewMetricsMailbox(nil)
			if err != nil {
				return err
			}
			boxes := snapsocket.Mailboxes{rec, metrics}
			if cfg.Journal.Path != "" {
				j, err := snapsocket.OpenJournal(cfg.Journal.Path)
				if err != nil {
					return err
				}
				defer j.Close()
				boxes = append(boxes, j)
			}

			sim, err := snapsocket.NewSim(sc, cfg, nil, snapsocket.WithMailbox(boxes))
			if err != nil {
				return err
			}
			sock, obj, err := pickTracked(sim, socketName, track)
			if err != nil {
				return err
			}

			total := sim.Duration(cfg.Sim.Duration)
			frames := int(math.Ceil(float64(total / cfg.Sim.DT)))
			distances := make([]float64, 0, frames)
			for i := 0; i < frames; i++ {
				sim.Step(cfg.Sim.DT)
				distances = append(distances, distance(sim, sock, obj, distances))
			}

			out := cmd.OutOrStdout()
			if len(distances) > 0 {
				fmt.Fprintln(out, asciigraph.Plot(distances,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(fmt.Sprintf("distance %s to %s", sim.Name(obj), sim.Name(sock.ID()))),
				))
			}
			fmt.Fprintln(out, summary(sim, rec, frames))
			return nil
		},
	}
	addScenarioFlag(cmd)
	cmd.Flags().Float32Var(&dt, "dt", 1.0/90, "timestep in seconds")
	cmd.Flags().Float32Var(&duration, "duration", 5, "seconds to run when the scenario has no duration")
	cmd.Flags().StringVar(&journalPath, "journal", "", "sqlite journal path, overrides journal.path")
	cmd.Flags().StringVar(&socketName, "socket", "", "socket to plot, first socket if empty")
	cmd.Flags().StringVar(&track, "track", "", "object to plot, first candidate if empty")
	return cmd
}

func pickTracked(sim *snapsocket.Sim, socketName, track string) (*snapsocket.Socket, uint64, error) {
	if socketName == "" {
		names := sim.SocketNames()
		if len(names) == 0 {
			return nil, 0, fmt.Errorf("scenario %q has no socket", sim.Scenario().Name)
		}
		socketName = names[0]
	}
	sock, ok := sim.Socket(socketName)
	if !ok {
		return nil, 0, fmt.Errorf("socket %q: %w", socketName, snapsocket.ErrUnknownObject)
	}

	if track == "" {
		cands := sim.Candidates()
		if len(cands) == 0 {
			return nil, 0, fmt.Errorf("scenario %q has no candidate", sim.Scenario().Name)
		}
		return sock, cands[0].ID(), nil
	}
	id, ok := sim.Object(track)
	if !ok {
		return nil, 0, fmt.Errorf("%q: %w", track, snapsocket.ErrUnknownObject)
	}
	return sock, id, nil
}

// distance repeats the previous sample once either object is gone.
func distance(sim *snapsocket.Sim, sock *snapsocket.Socket, obj uint64, prev []float64) float64 {
	a, ok := sim.Scene.Transform(sock.ID())
	b, ok2 := sim.Scene.Transform(obj)
	if !ok || !ok2 {
		if len(prev) == 0 {
			return 0
		}
		return prev[len(prev)-1]
	}
	return float64(a.Position.Sub(b.Position).Len())
}

func summary(sim *snapsocket.Sim, rec *snapsocket.Recorder, frames int) string {
	lines := []string{
		titleStyle.Render(sim.Scenario().Name),
		row("frames", frames),
		row("elapsed", fmt.Sprintf("%.2fs", sim.Elapsed)),
		row("captures", rec.Count(snapsocket.SocketCapturedMessage{}.Type())),
		row("rejections", rec.Count(snapsocket.SocketRejectedMessage{}.Type())),
		row("releases", rec.Count(snapsocket.SocketReleasedMessage{}.Type())),
	}
	for _, name := range sim.SocketNames() {
		sock, _ := sim.Socket(name)
		state := sock.State().String()
		if id, ok := sock.Occupant(); ok {
			state += " by " + sim.Name(id)
		}
		lines = append(lines, row(name, state))
	}
	for _, obj := range sim.Candidates() {
		tint := ""
		if obj.Material != nil {
			tint = swatch(obj.Material.Tint()) + " "
		}
		lines = append(lines, row(obj.Name, tint+fmt.Sprintf("(%.2f, %.2f, %.2f)", obj.Position[0], obj.Position[1], obj.Position[2])))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
