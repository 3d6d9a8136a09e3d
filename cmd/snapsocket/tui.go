package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ScottBrooks/snapsocket"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	tuiNudge    = 0.05
	tuiTurn     = 15
	tuiMaxLines = 8
)

type frameMsg time.Time

func frame(dt float32) tea.Cmd {
	return tea.Tick(time.Duration(float64(dt)*float64(time.Second)), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

type tuiModel struct {
	sim   *snapsocket.Sim
	rec   *snapsocket.Recorder
	dt    float32
	focus int

	seen   int
	events []string
}

func (m *tuiModel) Init() tea.Cmd { return frame(m.dt) }

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case frameMsg:
		m.sim.Step(m.dt)
		m.collect()
		return m, frame(m.dt)
	}
	return m, nil
}

func (m *tuiModel) focused() (*snapsocket.SceneObject, bool) {
	cands := m.sim.Candidates()
	if len(cands) == 0 {
		return nil, false
	}
	return cands[m.focus%len(cands)], true
}

func (m *tuiModel) handleKey(key string) tea.Cmd {
	stick := &m.sim.Joystick.Axis
	switch key {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "left":
		*stick = mgl32.Vec2{-1, 0}
	case "right":
		*stick = mgl32.Vec2{1, 0}
	case "up":
		*stick = mgl32.Vec2{0, 1}
	case "down":
		*stick = mgl32.Vec2{0, -1}
	case " ":
		*stick = mgl32.Vec2{}
	case "tab":
		m.focus++
	case "x":
		for _, name := range m.sim.SocketNames() {
			sock, _ := m.sim.Socket(name)
			sock.Release()
		}
	}

	obj, ok := m.focused()
	if !ok {
		return nil
	}
	switch key {
	case "g":
		m.sim.Right.Clear()
		m.sim.Right.Select(obj.ID())
	case "d":
		m.sim.Right.Deselect(obj.ID())
	case "j":
		m.sim.Scene.SetPosition(obj.ID(), obj.Position.Add(mgl32.Vec3{-tuiNudge, 0, 0}))
	case "l":
		m.sim.Scene.SetPosition(obj.ID(), obj.Position.Add(mgl32.Vec3{tuiNudge, 0, 0}))
	case "i":
		m.sim.Scene.SetPosition(obj.ID(), obj.Position.Add(mgl32.Vec3{0, 0, tuiNudge}))
	case "k":
		m.sim.Scene.SetPosition(obj.ID(), obj.Position.Add(mgl32.Vec3{0, 0, -tuiNudge}))
	case "r":
		turn := mgl32.QuatRotate(mgl32.DegToRad(tuiTurn), mgl32.Vec3{0, 1, 0})
		m.sim.Scene.SetRotation(obj.ID(), turn.Mul(obj.Rotation).Normalize())
	}
	return nil
}

func (m *tuiModel) collect() {
	for _, msg := range m.rec.Messages[m.seen:] {
		m.events = append(m.events, fmt.Sprintf("%6.2fs %s", m.sim.Elapsed, describe(m.sim, msg)))
	}
	m.seen = len(m.rec.Messages)
	if len(m.events) > tuiMaxLines {
		m.events = m.events[len(m.events)-tuiMaxLines:]
	}
}

func describe(sim *snapsocket.Sim, msg snapsocket.Message) string {
	switch m := msg.(type) {
	case snapsocket.SocketCapturedMessage:
		return fmt.Sprintf("%s captured %s (%.1f°)", sim.Name(m.Socket), sim.Name(m.Object), m.Angle)
	case snapsocket.SocketRejectedMessage:
		return fmt.Sprintf("%s refused %s: %s (%.1f°)", sim.Name(m.Socket), sim.Name(m.Object), m.Verdict, m.Angle)
	case snapsocket.SocketReleasedMessage:
		return fmt.Sprintf("%s released %s: %s", sim.Name(m.Socket), sim.Name(m.Object), m.Reason)
	}
	return msg.Type()
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("snapsocket · "+m.sim.Scenario().Name) + "\n\n")

	for _, name := range m.sim.SocketNames() {
		sock, _ := m.sim.Socket(name)
		state := sock.State().String()
		if id, ok := sock.Occupant(); ok {
			state += " by " + m.sim.Name(id)
		}
		b.WriteString(row(name, state) + "\n")
	}
	b.WriteString("\n")

	focus, _ := m.focused()
	for _, obj := range m.sim.Candidates() {
		marker := "  "
		if obj == focus {
			marker = "▸ "
		}
		tint := "  "
		if obj.Material != nil {
			tint = swatch(obj.Material.Tint())
		}
		held := ""
		if m.sim.Hands.IsHeld(obj.ID()) {
			held = " held"
		}
		b.WriteString(fmt.Sprintf("%s%s %s%s\n", marker, tint,
			row(obj.Name, fmt.Sprintf("(%.2f, %.2f, %.2f)", obj.Position[0], obj.Position[1], obj.Position[2])), held))
	}

	axis := m.sim.Joystick.Axis
	b.WriteString("\n" + row("stick", fmt.Sprintf("(%.1f, %.1f)", axis[0], axis[1])) + "\n\n")
	for _, e := range m.events {
		b.WriteString(hintStyle.Render(e) + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("arrows stick · space stop · tab focus · g/d grab/drop · ijkl move · r turn · x release · q quit"))
	return boxStyle.Render(b.String())
}

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "drive a scenario interactively from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario()
			if err != nil {
				return err
			}
			// the alt screen owns the terminal
			log.SetOutput(io.Discard)

			rec := &snapsocket.Recorder{}
			sim, err := snapsocket.NewSim(sc, cfg, nil, snapsocket.WithMailbox(rec))
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(&tuiModel{sim: sim, rec: rec, dt: cfg.Sim.DT}, tea.WithAltScreen()).Run()
			return err
		},
	}
	addScenarioFlag(cmd)
	return cmd
}
