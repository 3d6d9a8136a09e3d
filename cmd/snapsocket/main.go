package main

import (
	"os"

	"github.com/ScottBrooks/snapsocket"
	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	logLevel     string
	scenarioFile string

	cfg snapsocket.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "snapsocket",
		Short:             "orientation-gated snap sockets for VR scenes",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides log.level")

	rootCmd.AddCommand(simCmd(), playCmd(), tuiCmd(), gizmoCmd(), configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := snapsocket.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c

	log.SetOutput(colorable.NewColorableStdout())
	return cfg.Log.Apply(log.StandardLogger())
}

func loadScenario() (*snapsocket.Scenario, error) {
	if scenarioFile == "" {
		return snapsocket.DemoScenario(), nil
	}
	return snapsocket.LoadScenario(scenarioFile)
}

func addScenarioFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "scenario file (yaml), built-in demo if empty")
}
