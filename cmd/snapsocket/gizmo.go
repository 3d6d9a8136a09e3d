package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ScottBrooks/snapsocket"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func gizmoCmd() *cobra.Command {
	var (
		out    string
		format string
		after  float32
	)
	view := snapsocket.DefaultGizmoView()

	cmd := &cobra.Command{
		Use:   "gizmo",
		Short: "render the debug gizmos of every socket to png or webp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario()
			if err != nil {
				return err
			}
			sim, err := snapsocket.NewSim(sc, cfg, nil)
			if err != nil {
				return err
			}
			for sim.Elapsed < after {
				sim.Step(cfg.Sim.DT)
			}

			var gizmos []snapsocket.Gizmo
			for _, name := range sim.SocketNames() {
				sock, _ := sim.Socket(name)
				gizmos = append(gizmos, sock.Gizmos()...)
			}
			for _, obj := range sim.Candidates() {
				gizmos = append(gizmos, snapsocket.ObjectGizmo(obj))
			}

			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := snapsocket.EncodeImage(f, snapsocket.RenderGizmos(gizmos, view), format); err != nil {
				f.Close()
				return fmt.Errorf("encoding %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.WithFields(log.Fields{"file": out, "gizmos": len(gizmos)}).Info("gizmos written")
			return nil
		},
	}
	addScenarioFlag(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "gizmos.png", "output file")
	cmd.Flags().StringVar(&format, "format", "", "png or webp, from the file extension if empty")
	cmd.Flags().Float32Var(&after, "after", 0, "seconds to simulate before rendering")
	cmd.Flags().IntVar(&view.Size, "size", view.Size, "image size in pixels")
	cmd.Flags().Float32Var(&view.Scale, "scale", view.Scale, "pixels per world unit")
	return cmd
}
